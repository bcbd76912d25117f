package inkwell

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Social cards are rendered at the standard OpenGraph size and cached
// immutably at the edge, so generation must be byte-deterministic for a
// given (title, date) pair. The fonts are compiled into the binary via
// gofont; nothing is read from disk or the network at render time.
const (
	cardWidth  = 1200
	cardHeight = 630

	cardMarginX   = 80
	cardTitleSize = 64
	cardMetaSize  = 28
	cardMaxLines  = 4
)

var (
	cardBackground = color.RGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}
	cardAccent     = color.RGBA{R: 0x38, G: 0xbd, B: 0xf8, A: 0xff}
	cardTitleColor = color.RGBA{R: 0xf8, G: 0xfa, B: 0xfc, A: 0xff}
	cardMetaColor  = color.RGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
)

var cardTitleFont, cardMetaFont *sfnt.Font

func init() {
	var err error
	if cardTitleFont, err = opentype.Parse(gobold.TTF); err != nil {
		panic(fmt.Sprintf("inkwell: parse embedded title font: %v", err))
	}
	if cardMetaFont, err = opentype.Parse(goregular.TTF); err != nil {
		panic(fmt.Sprintf("inkwell: parse embedded meta font: %v", err))
	}
}

// CardEntry identifies one social card the site serves.
type CardEntry struct {
	Slug  string
	Title string
	Date  *time.Time // nil omits the date line entirely
}

// IndexCardSlug is the reserved identifier for the home page card.
const IndexCardSlug = "index"

// CardEntries enumerates the cards derived from posts: one per post that
// does not declare an external ogImage, plus one synthetic index entry for
// the home page (site title, no date).
func CardEntries(siteName string, posts []Post) []CardEntry {
	entries := []CardEntry{{Slug: IndexCardSlug, Title: siteName}}
	for _, p := range posts {
		if p.OGImage != "" {
			continue
		}
		d := p.EffectiveDate()
		entries = append(entries, CardEntry{Slug: p.Slug, Title: p.Title, Date: &d})
	}
	return entries
}

// GenerateCard renders a 1200×630 PNG social card for a title and optional
// date. Output is byte-identical for identical inputs: faces are built with
// full hinting from embedded fonts and the stdlib PNG encoder is
// deterministic. Empty titles render an empty title region; a nil date
// omits the date line rather than drawing a blank one.
func GenerateCard(siteName, title string, date *time.Time) ([]byte, error) {
	// Faces are not safe for concurrent use, so each call builds its own.
	// Card generation is per-post independent and may run in parallel.
	titleFace, err := opentype.NewFace(cardTitleFont, &opentype.FaceOptions{
		Size: cardTitleSize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("card: title face: %w", err)
	}
	defer titleFace.Close()
	metaFace, err := opentype.NewFace(cardMetaFont, &opentype.FaceOptions{
		Size: cardMetaSize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("card: meta face: %w", err)
	}
	defer metaFace.Close()

	img := image.NewRGBA(image.Rect(0, 0, cardWidth, cardHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(cardBackground), image.Point{}, draw.Src)

	// Accent bar along the top edge.
	draw.Draw(img, image.Rect(0, 0, cardWidth, 12), image.NewUniform(cardAccent), image.Point{}, draw.Src)

	maxTextWidth := fixed.I(cardWidth - 2*cardMarginX)
	lines := wrapText(titleFace, title, maxTextWidth, cardMaxLines)

	titleMetrics := titleFace.Metrics()
	lineHeight := titleMetrics.Height.Ceil() + 8
	blockHeight := len(lines) * lineHeight

	dateLine := ""
	if date != nil {
		dateLine = date.UTC().Format("January 2, 2006")
		blockHeight += cardMetaSize + 36
	}

	y := (cardHeight-blockHeight)/2 + titleMetrics.Ascent.Ceil()
	titleDrawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(cardTitleColor),
		Face: titleFace,
	}
	for _, line := range lines {
		titleDrawer.Dot = fixed.P(cardMarginX, y)
		titleDrawer.DrawString(line)
		y += lineHeight
	}

	metaDrawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(cardMetaColor),
		Face: metaFace,
	}
	if dateLine != "" {
		metaDrawer.Dot = fixed.P(cardMarginX, y+20)
		metaDrawer.DrawString(dateLine)
	}

	// Site name anchored to the bottom-left corner.
	if siteName != "" {
		metaDrawer.Dot = fixed.P(cardMarginX, cardHeight-60)
		metaDrawer.DrawString(siteName)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("card: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// wrapText greedily wraps s into at most maxLines lines no wider than
// maxWidth. Words wider than a full line are split mid-word; when the text
// does not fit, the final line is ellipsized. Pure measurement, so output
// is deterministic per face.
func wrapText(face font.Face, s string, maxWidth fixed.Int26_6, maxLines int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	measure := &font.Drawer{Face: face}

	var lines []string
	current := ""
	for _, word := range words {
		for measure.MeasureString(word) > maxWidth {
			// Hard-split an oversized word at the last rune that fits.
			fit := fitRunes(measure, word, maxWidth)
			if fit == 0 {
				fit = 1
			}
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			lines = append(lines, string([]rune(word)[:fit]))
			word = string([]rune(word)[fit:])
		}
		if word == "" {
			continue
		}
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if measure.MeasureString(candidate) > maxWidth {
			lines = append(lines, current)
			current = word
		} else {
			current = candidate
		}
	}
	if current != "" {
		lines = append(lines, current)
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		for len(last) > 0 && measure.MeasureString(string(last)+"…") > maxWidth {
			last = last[:len(last)-1]
		}
		lines[maxLines-1] = string(last) + "…"
	}
	return lines
}

func fitRunes(measure *font.Drawer, word string, maxWidth fixed.Int26_6) int {
	runes := []rune(word)
	for i := len(runes); i > 0; i-- {
		if measure.MeasureString(string(runes[:i])) <= maxWidth {
			return i
		}
	}
	return 0
}
