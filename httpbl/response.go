package httpbl

import (
	"fmt"
	"net/netip"
)

// Response is an http:BL answer split into its four octets.
type Response struct {
	// Sentinel is always 127 in a valid answer.
	Sentinel uint8
	// Days since the visitor was last seen.
	Days uint8
	// Score is the threat score, or the search engine id when Category is 0.
	Score uint8
	// Category is the visitor type code.
	Category uint8
}

// ParseResponse splits a resolved address into its fields. IPv4-mapped IPv6
// addresses are unmapped first; anything else that is not IPv4 is rejected.
func ParseResponse(addr netip.Addr) (Response, error) {
	addr = addr.Unmap()
	if !addr.Is4() {
		return Response{}, fmt.Errorf("%w: %s", ErrMalformedResponse, addr)
	}
	o := addr.As4()
	return Response{Sentinel: o[0], Days: o[1], Score: o[2], Category: o[3]}, nil
}

// Class is the kind of visitor an address was classified as. Values other
// than ClassNotClassified equal the protocol category code.
type Class uint8

const (
	ClassSearchEngine Class = iota
	ClassSuspicious
	ClassHarvester
	ClassCommentSpammer
	ClassSuspiciousHarvester
	ClassSuspiciousCommentSpammer
	ClassSuspiciousHarvesterCommentSpammer
	ClassNotClassified Class = 255
)

func classFromCode(code uint8) Class {
	if code <= uint8(ClassSuspiciousHarvesterCommentSpammer) {
		return Class(code)
	}
	return ClassNotClassified
}

var classNames = map[Class]string{
	ClassSearchEngine:                      "SearchEngine",
	ClassSuspicious:                        "Suspicious",
	ClassHarvester:                         "Harvester",
	ClassCommentSpammer:                    "CommentSpammer",
	ClassSuspiciousHarvester:               "SuspiciousHarvester",
	ClassSuspiciousCommentSpammer:          "SuspiciousCommentSpammer",
	ClassSuspiciousHarvesterCommentSpammer: "SuspiciousHarvesterCommentSpammer",
	ClassNotClassified:                     "NotClassified",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}

// Suspicious reports whether the class includes suspicious behaviour.
func (c Class) Suspicious() bool {
	switch c {
	case ClassSuspicious, ClassSuspiciousHarvester, ClassSuspiciousCommentSpammer, ClassSuspiciousHarvesterCommentSpammer:
		return true
	}
	return false
}

// Harvester reports whether the class includes email harvesting.
func (c Class) Harvester() bool {
	switch c {
	case ClassHarvester, ClassSuspiciousHarvester, ClassSuspiciousHarvesterCommentSpammer:
		return true
	}
	return false
}

// CommentSpammer reports whether the class includes comment spamming.
func (c Class) CommentSpammer() bool {
	switch c {
	case ClassCommentSpammer, ClassSuspiciousCommentSpammer, ClassSuspiciousHarvesterCommentSpammer:
		return true
	}
	return false
}

// Rating is the severity bucket of a threat score.
type Rating uint8

const (
	RatingNotClassified Rating = iota
	RatingLow
	RatingMedium
	RatingHigh
	RatingDangerous
)

var ratingNames = [...]string{"NotClassified", "Low", "Medium", "High", "Dangerous"}

func (r Rating) String() string {
	if int(r) < len(ratingNames) {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", uint8(r))
}

// Gets the threat rating for a score.
// Reference: http://www.projecthoneypot.org/threat_info.php
func ratingFromScore(score uint8) Rating {
	switch {
	case score == 0:
		return RatingNotClassified
	case score <= 25:
		return RatingLow
	case score <= 50:
		return RatingMedium
	case score <= 75:
		return RatingHigh
	default:
		return RatingDangerous
	}
}

var searchEngines = [...]string{
	"Undocumented",
	"AltaVista",
	"Ask",
	"Baidu",
	"Excite",
	"Google",
	"Looksmart",
	"Lycos",
	"MSN",
	"Yahoo",
	"Cuil",
	"InfoSeek",
	"Miscellaneous",
}

// SearchEngineName returns the name for a search engine id, or "NotFound".
func SearchEngineName(id uint8) string {
	if int(id) < len(searchEngines) {
		return searchEngines[id]
	}
	return "NotFound"
}

// Visitor is a decoded http:BL listing.
type Visitor struct {
	Class Class
	// SearchEngine is set only when Class is ClassSearchEngine.
	SearchEngine string
	ThreatRating Rating
	// LastActivity is the number of days since the last recorded activity.
	LastActivity uint8
}

func (v Visitor) String() string {
	class := v.Class.String()
	if v.Class == ClassSearchEngine {
		class += "(" + v.SearchEngine + ")"
	}
	return fmt.Sprintf("class=%s rating=%s last_activity=%d", class, v.ThreatRating, v.LastActivity)
}

// Decode turns a response into a Visitor. Every input decodes.
//
// The rating is always bucketed from Score, even for search engines where
// Score holds the engine id.
func Decode(r Response) Visitor {
	v := Visitor{
		Class:        classFromCode(r.Category),
		ThreatRating: ratingFromScore(r.Score),
		LastActivity: r.Days,
	}
	if v.Class == ClassSearchEngine {
		v.SearchEngine = SearchEngineName(r.Score)
	}
	return v
}
