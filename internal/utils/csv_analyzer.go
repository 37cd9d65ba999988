package utils

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// CSVAnalysisResult describes the detected shape of a CSV order sheet
type CSVAnalysisResult struct {
	Delimiter           rune    `json:"delimiter"` // ',', ';' or '\t'
	HasHeader           bool    `json:"has_header"`
	Columns             int     `json:"columns"`
	SampleRows          int     `json:"sample_rows"`
	DelimiterConfidence float64 `json:"delimiter_confidence"` // 0.0 to 1.0
}

// AnalyzeCSV inspects the first lines of a CSV payload to detect the
// delimiter. Sellers upload sheets saved from several spreadsheet programs,
// so comma, semicolon and tab all occur in practice.
func AnalyzeCSV(reader io.Reader) (*CSVAnalysisResult, error) {
	scanner := bufio.NewScanner(reader)
	var lines []string
	maxLines := 10

	for i := 0; i < maxLines && scanner.Scan(); i++ {
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if len(lines) == 0 {
		return nil, ErrEmptySheet
	}

	delimiter, confidence := detectDelimiter(lines)
	columns := countColumns(lines[0], delimiter)

	result := &CSVAnalysisResult{
		Delimiter:           delimiter,
		HasHeader:           hasHeader(lines, delimiter),
		Columns:             columns,
		SampleRows:          len(lines),
		DelimiterConfidence: confidence,
	}

	return result, nil
}

// detectDelimiter picks the most likely delimiter by scoring consistency
func detectDelimiter(lines []string) (rune, float64) {
	if len(lines) == 0 {
		return ',', 0.0
	}

	delimiters := []rune{',', ';', '\t'}
	scores := make(map[rune]float64)

	for _, delimiter := range delimiters {
		scores[delimiter] = analyzeDelimiterConsistency(lines, delimiter)
	}

	bestDelimiter := ','
	bestScore := scores[',']
	for _, delimiter := range delimiters[1:] {
		if scores[delimiter] > bestScore {
			bestDelimiter = delimiter
			bestScore = scores[delimiter]
		}
	}

	return bestDelimiter, bestScore
}

// analyzeDelimiterConsistency scores how consistently a delimiter splits the
// sampled lines into the same number of columns
func analyzeDelimiterConsistency(lines []string, delimiter rune) float64 {
	if len(lines) < 2 {
		return 0.0
	}

	delimiterStr := string(delimiter)
	firstLineColumns := len(strings.Split(lines[0], delimiterStr))

	if firstLineColumns < 2 {
		return 0.0 // a delimiter must produce at least 2 columns
	}

	consistentLines := 0
	for _, line := range lines {
		columns := len(strings.Split(line, delimiterStr))
		// Tolerate ±1 column for trailing empty fields
		if columns >= firstLineColumns-1 && columns <= firstLineColumns+1 {
			consistentLines++
		}
	}

	consistency := float64(consistentLines) / float64(len(lines))

	// Prefer delimiters that produce more columns (more structured)
	columnBonus := float64(firstLineColumns) * 0.1
	if columnBonus > 0.3 {
		columnBonus = 0.3
	}

	return consistency + columnBonus
}

func countColumns(line string, delimiter rune) int {
	return len(strings.Split(line, string(delimiter)))
}

// hasHeader guesses whether the first line is a header row. Order sheets use
// the Korean marketplace column names, so those weigh the heuristic.
func hasHeader(lines []string, delimiter rune) bool {
	if len(lines) < 2 {
		return false
	}

	firstLine := strings.Split(lines[0], string(delimiter))

	headerWords := []string{
		"수령인", "주소", "옵션", "수량", "주문", "배송", "전화번호", "요청사항",
		"name", "phone", "address", "option", "quantity", "order",
	}

	headerCount := 0
	numericPattern := regexp.MustCompile(`^\d+([.,]\d+)*$`)

	for _, field := range firstLine {
		field = strings.ToLower(strings.TrimSpace(field))
		field = strings.Trim(field, `"'`)

		for _, headerWord := range headerWords {
			if strings.Contains(field, headerWord) {
				headerCount++
				break
			}
		}

		// Numeric fields make a header row less likely
		if numericPattern.MatchString(field) {
			headerCount--
		}
	}

	return float64(headerCount)/float64(len(firstLine)) > 0.3
}

// ParseCSVWithDetectedDelimiter analyzes and parses a CSV in one pass
func ParseCSVWithDetectedDelimiter(reader io.Reader) ([][]string, *CSVAnalysisResult, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read content: %w", err)
	}

	analysis, err := AnalyzeCSV(strings.NewReader(string(content)))
	if err != nil {
		return nil, nil, err
	}

	csvReader := csv.NewReader(strings.NewReader(string(content)))
	csvReader.Comma = analysis.Delimiter
	csvReader.FieldsPerRecord = -1 // rows may have trailing fields missing

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, analysis, fmt.Errorf("failed to parse CSV: %w", err)
	}

	return records, analysis, nil
}
