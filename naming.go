package modload

const (
	// SymbolPrefix starts every exported component symbol.
	SymbolPrefix = "yasm_"
	// SymbolInfix separates the keyword from the symbol base name.
	SymbolInfix = "_LTX_"
)

// UnitName returns the loadable unit name for a component: type_keyword.
// Case is kept as given.
func UnitName(typ, keyword string) string {
	return typ + "_" + keyword
}

// SymbolName returns the exported symbol name a unit must carry for symbol,
// e.g. SymbolName("coff", "objfmt") is "yasm_coff_LTX_objfmt".
func SymbolName(keyword, symbol string) string {
	return SymbolPrefix + keyword + SymbolInfix + symbol
}
