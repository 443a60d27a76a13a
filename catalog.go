package modload

// Component types.
const (
	ObjectFormat = "objfmt"
	Parser       = "parser"
	Preprocessor = "preproc"
	DebugFormat  = "dbgfmt"
)

// Keywords of every unit the toolchain may ship, per type.
// Maintained by hand.
var (
	objfmts  = [...]string{"dbg", "bin", "coff"}
	parsers  = [...]string{"nasm"}
	preprocs = [...]string{"nasm", "raw"}
	dbgfmts  = [...]string{"null"}
)

// Types returns the component types in listing order.
func Types() []string {
	return []string{ObjectFormat, Parser, Preprocessor, DebugFormat}
}

// Catalog returns a copy of the known keywords of typ in catalog order, nil for an unknown type.
func Catalog(typ string) []string {
	switch typ {
	case ObjectFormat:
		return append([]string(nil), objfmts[:]...)
	case Parser:
		return append([]string(nil), parsers[:]...)
	case Preprocessor:
		return append([]string(nil), preprocs[:]...)
	case DebugFormat:
		return append([]string(nil), dbgfmts[:]...)
	default:
		return nil
	}
}
