package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/couchcryptid/geofix/internal/textnorm"
)

// ErrParse is returned when a token cannot be read as a coordinate component.
var ErrParse = errors.New("unparseable coordinate")

var (
	// hemisphereLetterRe matches a standalone hemisphere letter, e.g. the S in "23.5 S".
	hemisphereLetterRe = regexp.MustCompile(`\b[NSWE]\b`)

	// dmsRe matches degrees, minutes and seconds: 10°30'15", 10:30'15, 10 30 15.
	dmsRe = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)[°:\s]+(\d+(?:\.\d+)?)['′\s]+(\d+(?:\.\d+)?)["″]?$`)
)

// HemisphereWords are the full hemisphere names recognized in coordinate
// text, already upper-cased. They are checked in North, South, East, West
// order and the first one found wins.
type HemisphereWords struct {
	North string
	South string
	East  string
	West  string
}

var (
	PortugueseWords = HemisphereWords{North: "NORTE", South: "SUL", East: "LESTE", West: "OESTE"}
	EnglishWords    = HemisphereWords{North: "NORTH", South: "SOUTH", East: "EAST", West: "WEST"}
)

// HemisphereWordsFor returns the preset for a language code ("pt" or "en").
func HemisphereWordsFor(lang string) (HemisphereWords, error) {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "pt", "pt-br":
		return PortugueseWords, nil
	case "en":
		return EnglishWords, nil
	default:
		return HemisphereWords{}, fmt.Errorf("unsupported coordinate language %q", lang)
	}
}

// UnmarkedPolicy decides the sign of a positive value that carries no
// hemisphere marker.
type UnmarkedPolicy int

const (
	// UnmarkedNegative forces unmarked positive values negative. Source data
	// covers the southern and western hemispheres only, so a bare "23.5" is
	// read as -23.5.
	UnmarkedNegative UnmarkedPolicy = iota
	// UnmarkedKeep leaves unmarked values as written.
	UnmarkedKeep
)

// ParseUnmarkedPolicy reads a policy name: "negative" or "keep".
func ParseUnmarkedPolicy(s string) (UnmarkedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "negative":
		return UnmarkedNegative, nil
	case "keep":
		return UnmarkedKeep, nil
	default:
		return 0, fmt.Errorf("unsupported unmarked-coordinate policy %q", s)
	}
}

func (p UnmarkedPolicy) String() string {
	if p == UnmarkedKeep {
		return "keep"
	}
	return "negative"
}

type hemisphere int

const (
	unmarked hemisphere = iota
	north
	south
	east
	west
)

// Parser turns raw coordinate tokens into signed decimal degrees.
// It holds no mutable state and is safe for concurrent use.
type Parser struct {
	words  HemisphereWords
	policy UnmarkedPolicy
}

// NewParser creates a Parser for the given hemisphere words and sign policy.
func NewParser(words HemisphereWords, policy UnmarkedPolicy) *Parser {
	return &Parser{words: words, policy: policy}
}

// DefaultParser reads Portuguese hemisphere words and treats unmarked
// positive values as negative.
func DefaultParser() *Parser {
	return NewParser(PortugueseWords, UnmarkedNegative)
}

// Parse converts token to a decimal degree on the given axis.
//
// Numbers are taken as decimal degrees as-is. Strings may be plain decimals
// (comma or period separator) or degrees-minutes-seconds, optionally marked
// with a hemisphere word or letter. Out-of-range and NaN results fail with
// ErrParse.
func (p *Parser) Parse(token any, axis Axis) (float64, error) {
	var (
		v   float64
		err error
	)
	switch t := token.(type) {
	case string:
		v, err = p.parseText(t)
	case nil:
		err = ErrParse
	default:
		var ok bool
		if v, ok = numeric(t); !ok {
			err = ErrParse
		}
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s %v", err, axis, token)
	}
	if !axis.InRange(v) {
		return 0, fmt.Errorf("%w: %s %v out of range", ErrParse, axis, token)
	}
	return v, nil
}

// ParseCoordinate parses both components of a pair.
func (p *Parser) ParseCoordinate(lat, lon any) (Coordinate, error) {
	la, err := p.Parse(lat, Latitude)
	if err != nil {
		return Coordinate{}, err
	}
	lo, err := p.Parse(lon, Longitude)
	if err != nil {
		return Coordinate{}, err
	}
	return Coordinate{Lat: la, Lon: lo}, nil
}

// textCleaner turns decimal commas into points and no-break spaces into
// plain ones, since regexp's \s only matches ASCII whitespace.
var textCleaner = strings.NewReplacer(",", ".", "\u00a0", " ")

func (p *Parser) parseText(s string) (float64, error) {
	c := textnorm.Upper(strings.TrimSpace(textCleaner.Replace(s)))

	h, c := p.extractHemisphere(c)
	c = strings.TrimSpace(c)
	if c == "" {
		return 0, ErrParse
	}

	v, err := parseMagnitude(c)
	if err != nil {
		return 0, err
	}

	switch h {
	case south, west:
		return -math.Abs(v), nil
	case north, east:
		return math.Abs(v), nil
	}
	if p.policy == UnmarkedNegative && v > 0 {
		return -v, nil
	}
	return v, nil
}

// extractHemisphere finds the hemisphere marker in c and returns c with the
// marker removed. Full words take precedence over single letters. When a
// letter matches, every standalone hemisphere letter is removed.
func (p *Parser) extractHemisphere(c string) (hemisphere, string) {
	words := []struct {
		word string
		h    hemisphere
	}{
		{p.words.North, north},
		{p.words.South, south},
		{p.words.East, east},
		{p.words.West, west},
	}
	for _, w := range words {
		if w.word != "" && strings.Contains(c, w.word) {
			return w.h, strings.ReplaceAll(c, w.word, "")
		}
	}

	letter := hemisphereLetterRe.FindString(c)
	if letter == "" {
		return unmarked, c
	}
	c = hemisphereLetterRe.ReplaceAllString(c, "")
	switch letter {
	case "N":
		return north, c
	case "S":
		return south, c
	case "E":
		return east, c
	default:
		return west, c
	}
}

// parseMagnitude reads a DMS triple or a plain decimal. The DMS sign comes
// from the degrees field.
func parseMagnitude(c string) (float64, error) {
	if m := dmsRe.FindStringSubmatch(c); m != nil {
		deg, err1 := strconv.ParseFloat(m[1], 64)
		mins, err2 := strconv.ParseFloat(m[2], 64)
		secs, err3 := strconv.ParseFloat(m[3], 64)
		if err := errors.Join(err1, err2, err3); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrParse, err)
		}
		dec := math.Abs(deg) + mins/60 + secs/3600
		if deg < 0 {
			dec = -dec
		}
		return dec, nil
	}

	v, err := strconv.ParseFloat(c, 64)
	if err != nil {
		return 0, ErrParse
	}
	return v, nil
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
