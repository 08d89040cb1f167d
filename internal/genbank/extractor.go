package genbank

import "strings"

// qualifier join modes. Translations and locus tags are single tokens, so
// continuation lines are stripped of every space; product descriptions keep
// their words separated.
const (
	joinStripped = iota
	joinSpaced
)

// ExtractProteins scans feature-table lines for CDS entries and emits one
// ProteinRecord per CDS that carries a translation qualifier. A CDS with no
// translation yields nothing; those are typically pseudogenes.
func ExtractProteins(lines []string) []ProteinRecord {
	var records []ProteinRecord

	for i := 0; i < len(lines); i++ {
		if !isCDSLine(lines[i]) {
			continue
		}

		var locusTag, product, sequence string
		hasTranslation := false

		for j := i + 1; j < len(lines); j++ {
			line := lines[j]
			if blockEnds(line) {
				break
			}
			switch {
			case strings.Contains(line, "/locus_tag="):
				locusTag, j = qualifierValue(lines, j, "locus_tag", joinStripped)
			case strings.Contains(line, "/product="):
				product, j = qualifierValue(lines, j, "product", joinSpaced)
			case strings.Contains(line, "/translation="):
				sequence, j = qualifierValue(lines, j, "translation", joinStripped)
				hasTranslation = true
			}
		}

		if hasTranslation && locusTag != "" {
			records = append(records, ProteinRecord{
				LocusTag: locusTag,
				Product:  product,
				Sequence: sequence,
			})
		}
	}

	return records
}

// ExtractCoordinates parses the location operand of every CDS and returns
// genome-relative coordinates, keyed by the same locus tags as
// ExtractProteins. Contig lengths read from CONTIG directives accumulate
// into a running offset so that coordinates increase monotonically across
// a multi-contig assembly.
func ExtractCoordinates(lines []string) []CoordinateEntry {
	var entries []CoordinateEntry
	offset := 0

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if strings.HasPrefix(line, "CONTIG") {
			if n, err := contigLength(line); err == nil {
				offset += n
			}
			continue
		}

		if !isCDSLine(line) {
			continue
		}

		operand := strings.TrimSpace(strings.Replace(line, "CDS", "", 1))
		start, end, err := ParseLocation(operand)
		if err != nil {
			// Malformed location: skip the feature, keep parsing the file.
			continue
		}

		locusTag := ""
		for j := i + 1; j < len(lines); j++ {
			if blockEnds(lines[j]) {
				break
			}
			if strings.Contains(lines[j], "/locus_tag=") {
				locusTag, _ = qualifierValue(lines, j, "locus_tag", joinStripped)
				break
			}
		}
		if locusTag == "" {
			continue
		}

		entries = append(entries, CoordinateEntry{
			LocusTag: locusTag,
			Start:    start + offset,
			End:      end + offset,
		})
	}

	return entries
}

// qualifierValue returns the value of the qualifier on lines[i] and the
// index of the last line consumed. When the opening quote is not closed on
// the same line the value continues on following lines until a line
// containing the closing quote is found.
func qualifierValue(lines []string, i int, name string, mode int) (string, int) {
	raw := strings.Replace(lines[i], "/"+name+"=", "", 1)
	quotes := strings.Count(raw, `"`)
	val := strings.TrimSpace(strings.ReplaceAll(raw, `"`, ""))
	if quotes >= 2 {
		return val, i
	}

	var b strings.Builder
	b.WriteString(val)

	j := i + 1
	for ; j < len(lines); j++ {
		part := lines[j]
		closed := strings.Contains(part, `"`)
		part = strings.ReplaceAll(part, `"`, "")
		switch mode {
		case joinSpaced:
			b.WriteString(" ")
			b.WriteString(strings.TrimSpace(part))
		default:
			b.WriteString(strings.ReplaceAll(part, " ", ""))
		}
		if closed {
			return b.String(), j
		}
	}
	return b.String(), j - 1
}

// isCDSLine reports whether a line opens a CDS feature-table entry.
// Assembly-gap annotations carry "::" in the same column region and are
// not features.
func isCDSLine(line string) bool {
	return strings.Contains(line, "   CDS   ") && !strings.Contains(line, "   ::")
}

// blockEnds reports whether line terminates the current feature block:
// the next feature entry, the next CDS, or a section outside the feature
// table (ORIGIN, CONTIG, sequence data).
func blockEnds(line string) bool {
	if !strings.HasPrefix(line, " ") {
		return true
	}
	if isCDSLine(line) {
		return true
	}
	// Feature keys sit at column five; qualifiers are indented further.
	return strings.HasPrefix(line, "     ") && len(line) > 5 && line[5] != ' '
}
