package main

import (
	"log"
	"os"

	"github.com/eqv/interval-tree/pkg/rangecheck"
	"github.com/spf13/pflag"
)

func main() {
	rangesFileOrURL := pflag.StringP("ranges", "r", "", "Path or URL to a CSV file with labelled ranges. Records are lo,hi,label (integers or IPv4 addresses) or cidr,label.")
	inputFileOrURL := pflag.StringP("input-file", "i", "", "Path or URL to a text file in any format. Every IPv4 address found on each line is checked against all ranges.")
	queries := pflag.StringArrayP("query", "q", nil, "Range to look up, as lo-hi, a CIDR block or a single value. May be repeated.")
	verbose := pflag.Bool("verbose", false, "Verbose output, helps when troubleshooting.")
	toCSVFile := pflag.String("to-csv-file", "", "Export all matches to the given CSV file (e.g. ./matches.csv)")

	pflag.Parse()

	if *rangesFileOrURL == "" || (*inputFileOrURL == "" && len(*queries) == 0) {
		pflag.Usage()
		os.Exit(2)
	}

	matches, err := rangecheck.Check(rangecheck.Params{
		InputFileOrURL:  *inputFileOrURL,
		RangesFileOrURL: *rangesFileOrURL,
		Queries:         *queries,
		VerboseOutput:   *verbose,
		ToCSVFile:       *toCSVFile,
	})
	if err != nil {
		log.Fatalf("check failed: %+v", err)
	}
	if len(matches) == 0 {
		os.Exit(1)
	}
}
