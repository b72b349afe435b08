package summarizer

import (
	"fmt"
	"strings"

	"github.com/gomutex/godocx"
)

const (
	fontName   = "Calibri"
	topicSize  = 12
	bulletSize = 11
	bulletMark = "•"
)

type blockKind int

const (
	blockTopic blockKind = iota
	blockBullet
	blockSubBullet
)

type block struct {
	kind blockKind
	text string
}

// WriteDocument renders the summary as a .docx: plain lines become bold
// topics, "•" lines bullets, indented "•" lines second-level bullets.
func (s *implSummarizer) WriteDocument(title, summary, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	if title != "" {
		doc.AddParagraph("").AddText(title).Font(fontName).Size(16).Color("000000").Bold(true)
	}

	for _, b := range parseSummary(summary) {
		p := doc.AddParagraph("")
		switch b.kind {
		case blockTopic:
			p.AddText(b.text).Font(fontName).Size(topicSize).Color("000000").Bold(true)
		case blockBullet:
			p.AddText(bulletMark+" "+b.text).Font(fontName).Size(bulletSize).Color("000000")
		case blockSubBullet:
			p.AddText("    "+bulletMark+" "+b.text).Font(fontName).Size(bulletSize).Color("000000")
		}
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// parseSummary classifies each non-empty line. Markdown markers the model
// was asked not to use are stripped anyway.
func parseSummary(summary string) []block {
	var blocks []block
	for _, line := range strings.Split(summary, "\n") {
		line = strings.ReplaceAll(line, "*", "")
		line = strings.ReplaceAll(line, "#", "")

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if !strings.HasPrefix(trimmed, bulletMark) {
			blocks = append(blocks, block{kind: blockTopic, text: trimmed})
			continue
		}

		kind := blockBullet
		if indent := len(line) - len(strings.TrimLeft(line, " \t")); indent > 0 {
			kind = blockSubBullet
		}
		text := strings.TrimSpace(strings.TrimPrefix(trimmed, bulletMark))
		if text == "" {
			continue
		}
		blocks = append(blocks, block{kind: kind, text: text})
	}
	return blocks
}
