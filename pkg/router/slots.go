package router

import (
	"hash/fnv"
	"strings"

	"github.com/onekit-js/onekit-site/pkg/core"
)

// buildDiffPayload compares a fresh render against the session's last
// slot hashes and returns only what changed. A render without any
// data-slot regions is sent whole.
func buildDiffPayload(s *LiveSession, html string) *core.DiffPayload {
	payload := &core.DiffPayload{
		Version:   s.nextVersion(),
		Slots:     make(map[string]string),
		HTMLSlots: make(map[string]string),
	}

	textSlots, htmlSlots := extractSlots(html)
	prevHashes := s.SlotHashes()
	newHashes := hashSlots(textSlots, htmlSlots)

	for id, content := range textSlots {
		if prev, ok := prevHashes[id]; !ok || prev != newHashes[id] {
			payload.Slots[id] = content
		}
	}
	for id, content := range htmlSlots {
		if prev, ok := prevHashes[id]; !ok || prev != newHashes[id] {
			payload.HTMLSlots[id] = content
		}
	}

	s.SetSlotHashes(newHashes)

	if len(textSlots) == 0 && len(htmlSlots) == 0 {
		payload.Full = html
	}
	return payload
}

func hashSlots(textSlots, htmlSlots map[string]string) map[string]uint64 {
	hashes := make(map[string]uint64, len(textSlots)+len(htmlSlots))
	for id, content := range textSlots {
		hashes[id] = hashSlotContent(content)
	}
	for id, content := range htmlSlots {
		// Distinguish an HTML slot from a text slot with identical bytes.
		hashes[id] = hashSlotContent(content) ^ 1
	}
	return hashes
}

// hashSlotContent computes the FNV-64a hash of content.
func hashSlotContent(content string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(content))
	return h.Sum64()
}

// extractSlots extracts data-slot regions in a single pass. Slots nested
// inside another slot travel with their parent. Content containing markup
// is classified as an HTML slot, everything else as text.
func extractSlots(html string) (textSlots, htmlSlots map[string]string) {
	textSlots = make(map[string]string)
	htmlSlots = make(map[string]string)

	const marker = ` data-slot="`
	htmlLen := len(html)
	pos := 0

	for pos < htmlLen {
		idx := strings.Index(html[pos:], marker)
		if idx == -1 {
			break
		}

		slotStart := pos + idx + len(marker)
		slotEnd := strings.IndexByte(html[slotStart:], '"')
		if slotEnd == -1 {
			break
		}
		slotID := html[slotStart : slotStart+slotEnd]

		tagStart := pos + idx
		for tagStart > 0 && html[tagStart] != '<' {
			tagStart--
		}
		tagNameEnd := tagStart + 1
		for tagNameEnd < htmlLen && !isTagNameEnd(html[tagNameEnd]) {
			tagNameEnd++
		}
		tagName := html[tagStart+1 : tagNameEnd]

		closeAngle := strings.IndexByte(html[slotStart+slotEnd:], '>')
		if closeAngle == -1 {
			break
		}
		contentStart := slotStart + slotEnd + closeAngle + 1

		contentEnd, next := matchClose(html, tagName, contentStart)
		if contentEnd == -1 {
			pos = contentStart
			continue
		}

		content := strings.TrimSpace(html[contentStart:contentEnd])
		if strings.ContainsAny(content, "<>") {
			htmlSlots[slotID] = content
		} else {
			textSlots[slotID] = content
		}
		pos = next
	}

	return textSlots, htmlSlots
}

// matchClose finds the close tag balancing the element whose content starts
// at from. It returns the content end and the position after the close tag.
func matchClose(html, tagName string, from int) (end, next int) {
	openTag := "<" + tagName
	closeTag := "</" + tagName
	htmlLen := len(html)

	depth := 1
	pos := from
	for pos < htmlLen {
		nextClose := strings.Index(html[pos:], closeTag)
		if nextClose == -1 {
			return -1, htmlLen
		}
		nextClose += pos

		nextOpen := strings.Index(html[pos:], openTag)
		if nextOpen != -1 {
			nextOpen += pos
		} else {
			nextOpen = htmlLen
		}

		if nextOpen < nextClose {
			after := nextOpen + len(openTag)
			if after < htmlLen && isTagNameEnd(html[after]) {
				depth++
			}
			pos = after
			continue
		}

		depth--
		if depth == 0 {
			return nextClose, nextClose + len(closeTag)
		}
		pos = nextClose + len(closeTag)
	}
	return -1, htmlLen
}

func isTagNameEnd(c byte) bool {
	return c == ' ' || c == '>' || c == '/' || c == '\t' || c == '\n'
}
