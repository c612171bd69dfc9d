package listing

import "unicode"

// Search keeps the records whose every searched column contains its term,
// ignoring case, and marks the matched text. No terms keeps every record.
func Search[T any](records []T, columns []Column[T], terms map[string]string) []Row[T] {
	byKey := make(map[string]Column[T], len(columns))
	for _, col := range columns {
		byKey[col.Key] = col
	}

	rows := make([]Row[T], 0, len(records))
	for _, record := range records {
		row := Row[T]{Record: record}
		matched := true
		for key, term := range terms {
			col, ok := byKey[key]
			if !ok || col.Value == nil {
				continue
			}
			segments, found := Highlight(col.Value(record), term)
			if !found {
				matched = false
				break
			}
			if row.Highlights == nil {
				row.Highlights = map[string][]Segment{}
			}
			row.Highlights[key] = segments
		}
		if matched {
			rows = append(rows, row)
		}
	}
	return rows
}

// Highlight splits text around every case-insensitive occurrence of term.
func Highlight(text, term string) ([]Segment, bool) {
	runes := []rune(text)
	needle := foldRunes([]rune(term))
	if len(needle) == 0 {
		return []Segment{{Text: text}}, true
	}
	hay := foldRunes(runes)

	var segments []Segment
	start, found := 0, false
	for i := 0; i+len(needle) <= len(hay); {
		if !runesEqual(hay[i:i+len(needle)], needle) {
			i++
			continue
		}
		found = true
		if i > start {
			segments = append(segments, Segment{Text: string(runes[start:i])})
		}
		segments = append(segments, Segment{Text: string(runes[i : i+len(needle)]), Match: true})
		i += len(needle)
		start = i
	}
	if !found {
		return nil, false
	}
	if start < len(runes) {
		segments = append(segments, Segment{Text: string(runes[start:])})
	}
	return segments, true
}

func foldRunes(runes []rune) []rune {
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
