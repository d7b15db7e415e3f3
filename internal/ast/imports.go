package ast

import "github.com/jdm64/saphyr/pkg/token"

// ImportFileStm is `import "relative/path.sp";` — a source-relative file
// import tracked in the Global Context's file-loaded set to avoid
// reprocessing the same file twice (see internal/context).
type ImportFileStm struct {
	base
	Path string
}

func NewImportFileStm(pathTok token.Token, path string) *ImportFileStm {
	return &ImportFileStm{base{pathTok}, path}
}
func (n *ImportFileStm) ID() ID       { return NImportFileStm }
func (n *ImportFileStm) isStatement() {}
func (n *ImportFileStm) Clone() Node  { c := *n; return &c }

// ImportPkgStm is `import pkg;` — a search-path package import, resolved
// the same way as ImportFileStm but without a literal relative path.
type ImportPkgStm struct {
	base
	Name string
}

func NewImportPkgStm(nameTok token.Token) *ImportPkgStm {
	return &ImportPkgStm{base{nameTok}, nameTok.Text}
}
func (n *ImportPkgStm) ID() ID       { return NImportPkgStm }
func (n *ImportPkgStm) isStatement() {}
func (n *ImportPkgStm) Clone() Node  { c := *n; return &c }
