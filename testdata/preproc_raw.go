package main

import "github.com/ZenLiuCN/modload"

//go:generate modinfo build preproc raw preproc_raw.go
var yasm_raw_LTX_preproc = modload.Descriptor{
	Name:    "Disable preprocessing",
	Keyword: "raw",
}
