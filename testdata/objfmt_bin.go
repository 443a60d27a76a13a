package main

import "github.com/ZenLiuCN/modload"

//go:generate modinfo build objfmt bin objfmt_bin.go
var yasm_bin_LTX_objfmt = modload.Descriptor{
	Name:    "Flat format binary",
	Keyword: "bin",
}
