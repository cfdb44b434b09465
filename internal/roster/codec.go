package roster

import (
	"strings"
)

const fieldSep = ","

// encodeLine renders a student as id,name,label. Names are written as-is; a
// comma inside a name produces a line that is skipped on the next load.
func encodeLine(s Student) string {
	return s.ID + fieldSep + s.Name + fieldSep + s.StatusLabel()
}

func decodeLine(line string) (Student, bool) {
	fields := splitFields(strings.TrimSuffix(line, "\r"))
	if len(fields) != 3 {
		return Student{}, false
	}
	return Student{
		ID:      fields[0],
		Name:    fields[1],
		Present: strings.EqualFold(fields[2], LabelPresent),
	}, true
}

// splitFields drops trailing empty fields, so "a,b," counts as two fields.
func splitFields(line string) []string {
	fields := strings.Split(line, fieldSep)
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}
