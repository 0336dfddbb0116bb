package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"dojo.app/platform/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
