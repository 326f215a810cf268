// Package nodes defines the document-tree nodes that goldmark does not
// provide: the RFC-2822 field list, the contents topic, and the target notes
// produced for reference-style links.
package nodes

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// ClassRFC2822 marks the field list built from a document's header block.
const ClassRFC2822 = "rfc2822"

var (
	KindFieldList     = ast.NewNodeKind("FieldList")
	KindField         = ast.NewNodeKind("Field")
	KindTopic         = ast.NewNodeKind("Topic")
	KindTargetNotes   = ast.NewNodeKind("TargetNotes")
	KindNoteReference = ast.NewNodeKind("NoteReference")
)

// FieldList is a table of name/value fields. Its children are *Field nodes.
type FieldList struct {
	ast.BaseBlock
	Classes []string
}

// NewFieldList returns an empty field list with the given classes.
func NewFieldList(classes ...string) *FieldList {
	return &FieldList{Classes: classes}
}

// HasClass reports whether class is one of the list's classes.
func (n *FieldList) HasClass(class string) bool {
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

func (n *FieldList) Kind() ast.NodeKind {
	return KindFieldList
}

func (n *FieldList) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Classes": strings.Join(n.Classes, " "),
	}, nil)
}

// Field is one row of a FieldList. Its children are inline nodes forming the
// field body.
type Field struct {
	ast.BaseBlock
	Name string
}

// NewField returns a field with the given name and no body.
func NewField(name string) *Field {
	return &Field{Name: name}
}

func (n *Field) Kind() ast.NodeKind {
	return KindField
}

func (n *Field) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Name": n.Name}, nil)
}

// Topic is a titled aside, used for the generated table of contents.
type Topic struct {
	ast.BaseBlock
	ID    string
	Title string
	Class string
}

// NewTopic returns a topic container.
func NewTopic(id, title, class string) *Topic {
	return &Topic{ID: id, Title: title, Class: class}
}

func (n *Topic) Kind() ast.NodeKind {
	return KindTopic
}

func (n *Topic) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"ID":    n.ID,
		"Title": n.Title,
		"Class": n.Class,
	}, nil)
}

// Note is one numbered external target.
type Note struct {
	Number      int
	Destination string
}

// NoteID returns the anchor id of note number n.
func NoteID(n int) string {
	return "target-note-" + strconv.Itoa(n)
}

// TargetNotes lists the external targets referenced in the document.
type TargetNotes struct {
	ast.BaseBlock
	Notes []Note
}

// NewTargetNotes returns a notes block for the given notes.
func NewTargetNotes(notes []Note) *TargetNotes {
	return &TargetNotes{Notes: notes}
}

func (n *TargetNotes) Kind() ast.NodeKind {
	return KindTargetNotes
}

func (n *TargetNotes) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Notes": strconv.Itoa(len(n.Notes)),
	}, nil)
}

// NoteReference points from a link to its entry in TargetNotes.
type NoteReference struct {
	ast.BaseInline
	Number int
}

// NewNoteReference returns a reference to note number.
func NewNoteReference(number int) *NoteReference {
	return &NoteReference{Number: number}
}

func (n *NoteReference) Kind() ast.NodeKind {
	return KindNoteReference
}

func (n *NoteReference) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Number": strconv.Itoa(n.Number),
	}, nil)
}
