package binrec

import (
	"strconv"
	"strings"
)

// The code below is not written with the same strict performance concerns as
// the rest of this package. It renders wire images for tooling such as
// commandline utilities; the field table drives the walk because the wire
// itself carries no schema.

// sprintDocument renders a record document as an indented tree.
func sprintDocument(c *codecImpl, b []byte) (out string, err error) {
	defer recoverFault(&err)

	if len(b) == 0 {
		return "null record\n", nil
	}

	r := NewReader(b)
	if r.ReadByte() == 0 {
		return "null record\n", nil
	}

	var sb strings.Builder
	sb.WriteString("Record " + c.typ.String() + "\n")
	sprintFields(c, &sb, "", &r)
	return sb.String(), nil
}

// sprintFields walks the field table against the reader, one tree row per
// field.
func sprintFields(c *codecImpl, sb *strings.Builder, prefix string, r *Reader) {
	for i := range c.fields {
		f := &c.fields[i]

		branch, childPrefix := "├─ ", prefix+"│  "
		if i == len(c.fields)-1 {
			branch, childPrefix = "└─ ", prefix+"   "
		}
		sb.WriteString(prefix + branch + f.name + " " + f.kind.String())

		switch f.kind &^ kindPtrFlag {
		case KindStruct:
			if r.ReadByte() == 0 {
				sb.WriteString(": null\n")
				continue
			}
			sb.WriteString("\n")
			sprintFields(f.sub, sb, childPrefix, r)

		case KindList, KindArray:
			sprintElements(f, sb, childPrefix, r, c.limits)

		case KindMap:
			sprintEntries(f, sb, childPrefix, r, c.limits)

		default:
			sb.WriteString(": " + sprintScalar(f.kind&^kindPtrFlag, r, c.limits) + "\n")
		}
	}
}

func sprintElements(f *fieldDesc, sb *strings.Builder, prefix string, r *Reader, limits DecodeLimits) {
	n := r.ReadLength()
	if n == int(nullLength) {
		sb.WriteString(": null\n")
		return
	}
	sb.WriteString("(" + strconv.Itoa(n) + ")\n")

	for i := 0; i < n; i++ {
		branch, childPrefix := "├─ ", prefix+"│  "
		if i == n-1 {
			branch, childPrefix = "└─ ", prefix+"   "
		}
		label := prefix + branch + "[" + strconv.Itoa(i) + "]"

		if f.elem == KindStruct {
			if r.ReadByte() == 0 {
				sb.WriteString(label + ": null\n")
				continue
			}
			sb.WriteString(label + "\n")
			sprintFields(f.sub, sb, childPrefix, r)
			continue
		}
		sb.WriteString(label + ": " + sprintScalar(f.elem, r, limits) + "\n")
	}
}

func sprintEntries(f *fieldDesc, sb *strings.Builder, prefix string, r *Reader, limits DecodeLimits) {
	n := r.ReadLength()
	if n == int(nullLength) {
		sb.WriteString(": null\n")
		return
	}
	sb.WriteString("(" + strconv.Itoa(n) + ")\n")

	for i := 0; i < n; i++ {
		branch, childPrefix := "├─ ", prefix+"│  "
		if i == n-1 {
			branch, childPrefix = "└─ ", prefix+"   "
		}

		if f.key == KindStruct {
			sb.WriteString(prefix + branch + "entry " + strconv.Itoa(i) + "\n")
			sb.WriteString(childPrefix + "├─ key")
			if r.ReadByte() == 0 {
				sb.WriteString(": null\n")
			} else {
				sb.WriteString("\n")
				sprintFields(f.keySub, sb, childPrefix+"│  ", r)
			}
			sb.WriteString(childPrefix + "└─ value")
			sprintValue(f, sb, childPrefix+"   ", r, limits)
			continue
		}

		key := sprintScalar(f.key, r, limits)
		if f.val == KindStruct {
			if r.ReadByte() == 0 {
				sb.WriteString(prefix + branch + key + ": null\n")
				continue
			}
			sb.WriteString(prefix + branch + key + "\n")
			sprintFields(f.sub, sb, childPrefix, r)
			continue
		}
		sb.WriteString(prefix + branch + key + ": " + sprintScalar(f.val, r, limits) + "\n")
	}
}

// sprintValue renders a map value, which may itself be a nested record.
func sprintValue(f *fieldDesc, sb *strings.Builder, prefix string, r *Reader, limits DecodeLimits) {
	if f.val == KindStruct {
		if r.ReadByte() == 0 {
			sb.WriteString(": null\n")
			return
		}
		sb.WriteString("\n")
		sprintFields(f.sub, sb, prefix, r)
		return
	}
	sb.WriteString(": " + sprintScalar(f.val, r, limits) + "\n")
}

// sprintScalar reads and formats one scalar value at the cursor.
func sprintScalar(k Kind, r *Reader, limits DecodeLimits) string {
	switch k {
	case KindBool:
		return strconv.FormatBool(r.ReadBool())
	case KindInt8:
		return strconv.Itoa(int(r.ReadInt8()))
	case KindInt16:
		return strconv.Itoa(int(r.ReadInt16()))
	case KindInt32:
		return strconv.Itoa(int(r.ReadInt32()))
	case KindInt64:
		return strconv.FormatInt(r.ReadInt64(), 10)
	case KindFloat32:
		return strconv.FormatFloat(float64(r.ReadFloat32()), 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(r.ReadFloat64(), 'g', -1, 64)
	case KindChar:
		return strconv.QuoteRune(rune(r.ReadChar()))
	case KindString:
		l := r.ReadLength()
		if l == int(nullLength) {
			return "null"
		}
		checkLimit(l, limits.MaxStringLen, "string")
		return strconv.Quote(string(r.Read(uint(l))))
	}
	return "?"
}
