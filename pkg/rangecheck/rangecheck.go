package rangecheck

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/eqv/interval-tree/pkg/interval"
	"github.com/eqv/interval-tree/pkg/iputil"
	"github.com/pkg/errors"
)

// Params configures Check.
type Params struct {
	// InputFileOrURL is scanned line by line for IPv4 addresses.
	InputFileOrURL string
	// RangesFileOrURL is a CSV file of labelled ranges, see LoadRanges.
	RangesFileOrURL string
	// Queries are extra ranges ("lo-hi", CIDR or single endpoint) to look up.
	Queries       []string
	VerboseOutput bool
	// ToCSVFile, when set, receives every match as a CSV record.
	ToCSVFile string
	// Out defaults to os.Stdout.
	Out io.Writer
}

// Match is a checked value together with one range that covers it.
type Match struct {
	Line    int
	Query   interval.Interval
	Range   interval.Interval
	Label   string
	RawLine string
}

var matchIP = regexp.MustCompile(`(^|[^\d\.])(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})([^\d\.]|$)`)

// LoadRanges reads labelled ranges into a new tree. Each CSV record is
// either "lo,hi,label" (endpoints as integers or IPv4 addresses) or
// "cidr,label". Blank records and records starting with '#' are skipped,
// as is a first record that does not parse.
func LoadRanges(fileOrURL string) (*interval.Tree[string], error) {
	tree := interval.NewIntervalTree[string]()

	err := readCSVFileOrURL(fileOrURL, func(recordNumber int, record []string) error {
		if len(record) == 0 || strings.HasPrefix(strings.TrimSpace(record[0]), "#") {
			return nil
		}

		iv, label, err := parseRecord(record)
		if err != nil {
			if recordNumber == 1 {
				// Header.
				return nil
			}
			return errors.Wrapf(err, "record %d", recordNumber)
		}

		tree.Insert(iv, label)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tree, nil
}

func parseRecord(record []string) (interval.Interval, string, error) {
	if strings.Contains(record[0], "/") {
		iv, err := iputil.CIDRToRange(record[0])
		if err != nil {
			return interval.Interval{}, "", err
		}
		var label string
		if len(record) > 1 {
			label = strings.TrimSpace(record[1])
		}
		return iv, label, nil
	}

	if len(record) < 2 {
		return interval.Interval{}, "", errors.Errorf("expected at least 2 fields, got %d", len(record))
	}
	low, err := iputil.ParseEndpoint(record[0])
	if err != nil {
		return interval.Interval{}, "", err
	}
	high, err := iputil.ParseEndpoint(record[1])
	if err != nil {
		return interval.Interval{}, "", err
	}
	iv, err := interval.NewInterval(low, high)
	if err != nil {
		return interval.Interval{}, "", err
	}
	var label string
	if len(record) > 2 {
		label = strings.TrimSpace(record[2])
	}
	return iv, label, nil
}

// Query returns every stored range overlapping the range described by q.
func Query(tree *interval.Tree[string], q string) ([]interval.Result[string], error) {
	iv, err := iputil.ParseRange(q)
	if err != nil {
		return nil, err
	}
	var res []interval.Result[string]
	for it := tree.Range(iv.Low(), iv.High()); it.Next(); {
		res = append(res, interval.Result[string]{Interval: it.Key(), Payload: it.Value()})
	}
	return res, nil
}

// Check loads the ranges named by p and reports every IPv4 address of the
// input, and every query, that falls inside one of them.
func Check(p Params) (matches []Match, err error) {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}

	if p.VerboseOutput {
		fmt.Fprintf(out, "Reading ranges from %s ..\n", p.RangesFileOrURL)
	}
	tree, err := LoadRanges(p.RangesFileOrURL)
	if err != nil {
		return nil, err
	}
	if p.VerboseOutput {
		fmt.Fprintf(out, "Loaded %d ranges into interval tree (height %d)\n", tree.Len(), tree.Height())
	}

	for _, q := range p.Queries {
		res, err := Query(tree, q)
		if err != nil {
			return nil, errors.Wrapf(err, "bad query '%s'", q)
		}
		iv, _ := iputil.ParseRange(q)
		for _, re := range res {
			fmt.Fprintf(out, "%s  <==  %-5s | %s\n", q, re.Payload, re.Interval)
			matches = append(matches, Match{Query: iv, Range: re.Interval, Label: re.Payload, RawLine: q})
		}
	}

	var numIPsFound int
	if p.InputFileOrURL != "" {
		err = readFileOrURL(p.InputFileOrURL, func(lineNumber int, line string) error {
			for _, match := range matchIP.FindAllStringSubmatch(line, -1) {
				if len(match) < 3 {
					continue
				}
				ip, err := iputil.ParseIPv4(match[2])
				if err != nil {
					// Looks like a dotted quad but has an octet above 255.
					continue
				}
				numIPsFound++

				res, err := tree.FindAllOverlapping(interval.Point(ip))
				if err != nil {
					continue
				}
				for _, re := range res {
					fmt.Fprintf(out, "%s  <==  %-5s | %s - %s\n", line, re.Payload,
						iputil.FormatIPv4(re.Interval.Low()), iputil.FormatIPv4(re.Interval.High()))
					matches = append(matches, Match{
						Line:    lineNumber,
						Query:   interval.Point(ip),
						Range:   re.Interval,
						Label:   re.Payload,
						RawLine: line,
					})
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	fmt.Fprintf(out, "\nFound %d matches | Checked %d IPs and %d queries against %d ranges\n",
		len(matches), numIPsFound, len(p.Queries), tree.Len())

	if p.ToCSVFile != "" {
		if err := writeCSV(p.ToCSVFile, matches); err != nil {
			return nil, err
		}
	}

	return matches, nil
}

func writeCSV(file string, matches []Match) error {
	f, err := os.Create(file)
	if err != nil {
		return errors.Wrapf(err, "could not create CSV file: %s", file)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"line", "query", "range_low", "range_high", "label"}); err != nil {
		return errors.Wrapf(err, "failed to write CSV header to %s", file)
	}
	for _, m := range matches {
		rec := []string{
			fmt.Sprint(m.Line),
			m.Query.String(),
			iputil.FormatIPv4(m.Range.Low()),
			iputil.FormatIPv4(m.Range.High()),
			m.Label,
		}
		if err := w.Write(rec); err != nil {
			return errors.Wrapf(err, "failed to write CSV record to %s", file)
		}
	}
	w.Flush()
	return errors.Wrapf(w.Error(), "failed to flush CSV file %s", file)
}

func readCSVFileOrURL(fileOrURL string, forEachRecord func(recordNumber int, record []string) error) error {
	file, err := localFile(fileOrURL)
	if err != nil {
		return err
	}

	f, err := os.Open(file)
	if err != nil {
		return errors.Wrapf(err, "failed to open CSV file: %s", file)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	var recordNumber int

	for {
		rec, err := cr.Read()
		if err != nil {
			if err != io.EOF {
				return errors.Wrapf(err, "failed to read CSV record from file: %s", file)
			}
			// We're done.
			break
		}

		recordNumber++
		err = forEachRecord(recordNumber, rec)
		if err != nil {
			return errors.Wrapf(err, "failed to process CSV record")
		}
	}

	return nil
}

func readFileOrURL(fileOrURL string, forEachLine func(lineNumber int, line string) error) error {
	file, err := localFile(fileOrURL)
	if err != nil {
		return err
	}

	f, err := os.Open(file)
	if err != nil {
		return errors.Wrapf(err, "failed to open file: %s", file)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lineNumber int

	for scanner.Scan() {
		lineNumber++
		err := forEachLine(lineNumber, scanner.Text())
		if err != nil {
			return errors.Wrapf(err, "failed to process line")
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "failed to read line from file: %s", file)
	}

	return nil
}

// localFile returns fileOrURL if it names an existing file, otherwise it
// treats it as a URL and downloads it to a temp file.
func localFile(fileOrURL string) (string, error) {
	_, err := os.Stat(fileOrURL)
	if err == nil {
		return fileOrURL, nil
	}
	if !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "got unexpected error when trying to stat file (or URL): %s", fileOrURL)
	}
	if !strings.HasPrefix(fileOrURL, "http://") && !strings.HasPrefix(fileOrURL, "https://") {
		return "", errors.Wrapf(err, "no such file: %s", fileOrURL)
	}
	return downloadURLToTempFile(fileOrURL)
}

func downloadURLToTempFile(url string) (filename string, err error) {
	res, err := http.Get(url)
	if err != nil {
		return "", errors.Wrapf(err, "failed to download data from URL: %s", url)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return "", errors.Errorf("failed to download data from URL: %s - got status code: %d", url, res.StatusCode)
	}

	f, err := os.CreateTemp(os.TempDir(), "ranges-to-check")
	if err != nil {
		return "", errors.Wrapf(err, "failed to create a temp file to store data in")
	}
	defer f.Close()

	_, err = io.Copy(f, res.Body)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read data from HTTP response from URL: %s", url)
	}

	return f.Name(), nil
}
