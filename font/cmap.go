package font

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// CMap represents a character map that maps character codes to Unicode
type CMap struct {
	// Single character mappings: charCode -> unicode string
	charMappings map[uint32]string

	// Range mappings for efficiency
	rangeMappings []CMapRange

	// Source code width in bytes from the codespace ranges.
	// Zero when the CMap declared none.
	codeBytes int
}

// CMapRange represents a range of character code to Unicode mappings
type CMapRange struct {
	StartCode    uint32
	EndCode      uint32
	StartUnicode uint32
}

// NewCMap creates a new empty CMap
func NewCMap() *CMap {
	return &CMap{
		charMappings:  make(map[uint32]string),
		rangeMappings: make([]CMapRange, 0),
	}
}

// ParseToUnicodeCMap parses a decoded ToUnicode CMap stream
func ParseToUnicodeCMap(data []byte) (*CMap, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty cmap stream")
	}
	return parseCMapData(data)
}

// parseCMapData parses the CMap program text
func parseCMapData(data []byte) (*CMap, error) {
	cmap := NewCMap()

	// Convert to string for easier parsing
	content := string(data)

	cmap.parseCodespaceRange(content)

	// Parse beginbfchar/endbfchar sections
	if err := cmap.parseBfChar(content); err != nil {
		// Non-fatal - just continue
		_ = err
	}

	// Parse beginbfrange/endbfrange sections
	if err := cmap.parseBfRange(content); err != nil {
		// Non-fatal - just continue
		_ = err
	}

	return cmap, nil
}

// parseCodespaceRange records the code width declared by
// begincodespacerange/endcodespacerange
// Format: <low> <high> pairs, the hex length gives the byte width
func (cm *CMap) parseCodespaceRange(content string) {
	beginIdx := strings.Index(content, "begincodespacerange")
	if beginIdx == -1 {
		return
	}
	endIdx := strings.Index(content[beginIdx:], "endcodespacerange")
	if endIdx == -1 {
		return
	}

	section := content[beginIdx+len("begincodespacerange") : beginIdx+endIdx]
	for _, hexStr := range hexTokens(section) {
		width := (len(hexStr) + 1) / 2
		if width > cm.codeBytes {
			cm.codeBytes = width
		}
	}
}

// parseBfChar parses beginbfchar/endbfchar sections
// Format: <srcCode> <dstUnicode>
func (cm *CMap) parseBfChar(content string) error {
	// Find all beginbfchar/endbfchar sections
	start := 0
	for {
		beginIdx := strings.Index(content[start:], "beginbfchar")
		if beginIdx == -1 {
			break
		}
		beginIdx += start

		endIdx := strings.Index(content[beginIdx:], "endbfchar")
		if endIdx == -1 {
			break
		}
		endIdx += beginIdx

		// Extract section content
		section := content[beginIdx+len("beginbfchar") : endIdx]

		// Parse mappings
		if err := cm.parseBfCharSection(section); err != nil {
			return err
		}

		start = endIdx + len("endbfchar")
	}

	return nil
}

// parseBfCharSection parses a single beginbfchar/endbfchar section
func (cm *CMap) parseBfCharSection(section string) error {
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Each mapping is a <srcCode> <dstUnicode> pair. Some writers
		// pack the tokens without whitespace.
		tokens := hexTokens(line)
		for j := 0; j+1 < len(tokens); j += 2 {
			srcCode, err := parseHexToUint32(tokens[j])
			if err != nil {
				continue
			}

			unicode, err := hexToUnicode(tokens[j+1])
			if err != nil {
				continue
			}

			cm.charMappings[srcCode] = unicode
		}
	}

	return nil
}

// parseBfRange parses beginbfrange/endbfrange sections
// Format: <srcCodeStart> <srcCodeEnd> <dstUnicode>
// or: <srcCodeStart> <srcCodeEnd> [<u1> <u2> <u3> ...]
func (cm *CMap) parseBfRange(content string) error {
	// Find all beginbfrange/endbfrange sections
	start := 0
	for {
		beginIdx := strings.Index(content[start:], "beginbfrange")
		if beginIdx == -1 {
			break
		}
		beginIdx += start

		endIdx := strings.Index(content[beginIdx:], "endbfrange")
		if endIdx == -1 {
			break
		}
		endIdx += beginIdx

		// Extract section content
		section := content[beginIdx+len("beginbfrange") : endIdx]

		// Parse mappings
		if err := cm.parseBfRangeSection(section); err != nil {
			return err
		}

		start = endIdx + len("endbfrange")
	}

	return nil
}

// parseBfRangeSection parses a single beginbfrange/endbfrange section
func (cm *CMap) parseBfRangeSection(section string) error {
	lines := strings.Split(section, "\n")

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}

		// Check if this is an array format (may span multiple lines)
		if strings.Contains(line, "[") {
			fullLine := line
			for !strings.Contains(fullLine, "]") && i+1 < len(lines) {
				i++
				fullLine += " " + strings.TrimSpace(lines[i])
			}
			cm.parseBfRangeArray(fullLine)
			i++
			continue
		}

		// Simple format: <start> <end> <unicode>
		tokens := hexTokens(line)
		for j := 0; j+2 < len(tokens); j += 3 {
			startCode, err1 := parseHexToUint32(tokens[j])
			endCode, err2 := parseHexToUint32(tokens[j+1])
			dstUnicode, err3 := parseHexToUint32(tokens[j+2])

			if err1 != nil || err2 != nil || err3 != nil {
				continue
			}

			cm.rangeMappings = append(cm.rangeMappings, CMapRange{
				StartCode:    startCode,
				EndCode:      endCode,
				StartUnicode: dstUnicode,
			})
		}

		i++
	}

	return nil
}

// parseBfRangeArray parses array format: <start> <end> [<u1> <u2> ...]
func (cm *CMap) parseBfRangeArray(line string) {
	arrayStart := strings.Index(line, "[")
	arrayEnd := strings.Index(line, "]")
	if arrayStart == -1 || arrayEnd == -1 || arrayEnd < arrayStart {
		return
	}

	// The start and end codes precede the array
	head := hexTokens(line[:arrayStart])
	if len(head) < 2 {
		return
	}

	startCode, err1 := parseHexToUint32(head[0])
	endCode, err2 := parseHexToUint32(head[1])
	if err1 != nil || err2 != nil {
		return
	}

	// Map each character code to its Unicode value
	currentCode := startCode
	for _, hexStr := range hexTokens(line[arrayStart+1 : arrayEnd]) {
		if currentCode > endCode {
			break
		}

		if unicode, err := hexToUnicode(hexStr); err == nil {
			cm.charMappings[currentCode] = unicode
		}

		currentCode++
	}
}

// lookup returns the mapped Unicode string for a code, if any
func (cm *CMap) lookup(charCode uint32) (string, bool) {
	// Check direct mappings first
	if unicode, ok := cm.charMappings[charCode]; ok {
		return unicode, true
	}

	// Check range mappings
	for _, r := range cm.rangeMappings {
		if charCode >= r.StartCode && charCode <= r.EndCode {
			offset := charCode - r.StartCode
			return string(rune(r.StartUnicode + offset)), true
		}
	}

	return "", false
}

// Lookup returns the Unicode string for a character code. Unmapped
// codes return the empty string, the caller decides on a fallback.
func (cm *CMap) Lookup(charCode uint32) string {
	unicode, _ := cm.lookup(charCode)
	return unicode
}

// LookupString decodes a string of character codes to Unicode.
// Codes without a mapping fall back to their Unicode interpretation.
func (cm *CMap) LookupString(data []byte) string {
	if cm == nil {
		return string(data)
	}

	var result strings.Builder

	switch cm.codeBytes {
	case 1:
		for _, b := range data {
			if unicode, ok := cm.lookup(uint32(b)); ok {
				result.WriteString(unicode)
			} else {
				result.WriteByte(b)
			}
		}

	case 2:
		for i := 0; i < len(data); i += 2 {
			var code uint32
			if i+1 < len(data) {
				code = uint32(data[i])<<8 | uint32(data[i+1])
			} else {
				// Odd trailing byte in a malformed string
				code = uint32(data[i])
			}

			if unicode, ok := cm.lookup(code); ok {
				result.WriteString(unicode)
			} else if code < 0x110000 {
				result.WriteString(string(rune(code)))
			}
		}

	default:
		// Code width unknown - prefer two-byte codes where they map
		i := 0
		for i < len(data) {
			if i+1 < len(data) {
				code := uint32(data[i])<<8 | uint32(data[i+1])
				if unicode, ok := cm.lookup(code); ok {
					result.WriteString(unicode)
					i += 2
					continue
				}
			}

			if unicode, ok := cm.lookup(uint32(data[i])); ok {
				result.WriteString(unicode)
			} else {
				// Fallback - output as-is
				result.WriteByte(data[i])
			}
			i++
		}
	}

	return result.String()
}

// Helper functions

// hexTokens returns the contents of the <...> groups in a string, in
// order. CMap writers often pack tokens without whitespace, so
// splitting on fields is not enough.
func hexTokens(s string) []string {
	var tokens []string
	for {
		open := strings.IndexByte(s, '<')
		if open == -1 {
			break
		}
		end := strings.IndexByte(s[open:], '>')
		if end == -1 {
			break
		}
		tokens = append(tokens, s[open+1:open+end])
		s = s[open+end+1:]
	}
	return tokens
}

// parseHexToUint32 parses a hex string to uint32
func parseHexToUint32(hexStr string) (uint32, error) {
	// Pad to even length
	if len(hexStr)%2 != 0 {
		hexStr = "0" + hexStr
	}

	val, err := strconv.ParseUint(hexStr, 16, 32)
	if err != nil {
		return 0, err
	}

	return uint32(val), nil
}

// hexToUnicode converts a hex string to a Unicode string
func hexToUnicode(hexStr string) (string, error) {
	// Some writers separate the UTF-16 units with spaces
	hexStr = strings.Join(strings.Fields(hexStr), "")

	// Pad to even length
	if len(hexStr)%2 != 0 {
		hexStr = "0" + hexStr
	}

	// Decode hex to bytes
	data, err := hex.DecodeString(hexStr)
	if err != nil {
		return "", err
	}

	// UTF-16BE with BOM
	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		return DecodeUTF16BE(data[2:]), nil
	}

	// If 2+ bytes, assume UTF-16BE
	if len(data) >= 2 {
		return DecodeUTF16BE(data), nil
	}

	// Single byte - ASCII
	if len(data) == 1 {
		return string(rune(data[0])), nil
	}

	return "", fmt.Errorf("invalid unicode data")
}
