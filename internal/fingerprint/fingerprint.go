// Package fingerprint computes short structural hashes of data records.
//
// The digest input is the JSON text Python produces for
// json.dumps(obj, sort_keys=True), so fingerprints stay comparable with
// snapshots written by the Python version tracker.
package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/pders01/modeldrift/internal/models"
)

// Length is the number of hex characters kept from the digest
const Length = 8

// Record returns the fingerprint of a record. Declaration order of bases
// and fields does not matter.
func Record(r *models.DeclaredRecord) string {
	bases := append([]string(nil), r.BaseClasses...)
	sort.Strings(bases)

	fields := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		fields = append(fields, f.Name+":"+f.Type)
	}
	sort.Strings(fields)

	return Digest(Canonical(r.Name, bases, fields))
}

// Canonical renders {"bases": ..., "fields": ..., "name": ...} with
// Python's default separators and ASCII escaping
func Canonical(name string, bases, fields []string) string {
	var b strings.Builder
	b.WriteString(`{"bases": `)
	writeList(&b, bases)
	b.WriteString(`, "fields": `)
	writeList(&b, fields)
	b.WriteString(`, "name": `)
	writeString(&b, name)
	b.WriteByte('}')
	return b.String()
}

// Digest returns the first Length hex chars of the MD5 of s
func Digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:Length]
}

// Apply sets the Hash of every record in place
func Apply(records []models.DeclaredRecord) {
	for i := range records {
		records[i].Hash = Record(&records[i])
	}
}

func writeList(b *strings.Builder, items []string) {
	b.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		writeString(b, item)
	}
	b.WriteByte(']')
}

func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r < 0x20 || (r >= 0x7f && r < 0x10000):
				fmt.Fprintf(b, `\u%04x`, r)
			case r >= 0x10000:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(b, `\u%04x\u%04x`, hi, lo)
			default:
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}
