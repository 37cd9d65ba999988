package utils

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// RowRecord is one spreadsheet row keyed by the header-row cell text
type RowRecord map[string]string

var (
	// ErrEmptySheet is returned when the first sheet yields no rows at all
	ErrEmptySheet = errors.New("시트에 데이터가 없습니다")
	// ErrEncryptedFile is returned when the workbook cannot be decoded because
	// it is password protected; callers should route to the decrypt flow
	ErrEncryptedFile = errors.New("암호로 보호된 파일입니다")
	// ErrWrongPassword is returned by DecryptWorkbook for a non-matching
	// password; this is retry-eligible, not a server error
	ErrWrongPassword = errors.New("비밀번호가 일치하지 않습니다")
)

// ParseSheet decodes an uploaded order sheet into row records. The format is
// selected by filename extension (.xlsx/.xls/.csv); anything else is rejected.
// Only the first sheet of a workbook is read.
func ParseSheet(filename string, data []byte) ([]RowRecord, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return parseWorkbook(data)
	case ".csv":
		return parseCSVSheet(data)
	default:
		return nil, fmt.Errorf("지원하지 않는 파일 형식입니다: %s", filepath.Ext(filename))
	}
}

// DecryptWorkbook opens a password-protected workbook and re-encodes it
// without the password so it can re-enter the normal parse path. The re-save
// must pass an empty password explicitly or excelize keeps the original one
// and writes the output encrypted again.
func DecryptWorkbook(data []byte, password string) ([]byte, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{Password: password})
	if err != nil {
		if errors.Is(err, excelize.ErrWorkbookPassword) || isEncryptionError(err) {
			return nil, ErrWrongPassword
		}
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf, excelize.Options{Password: ""}); err != nil {
		return nil, fmt.Errorf("failed to re-encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// cfbSignature is the compound-file header every encrypted OOXML workbook
// starts with. A plain workbook is a zip archive instead.
var cfbSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

func isCFBContainer(data []byte) bool {
	return bytes.HasPrefix(data, cfbSignature)
}

func parseWorkbook(data []byte) ([]RowRecord, error) {
	// excelize without a password rejects a CFB container as a bad zip, so
	// the signature has to be checked up front to reach the password flow
	if isCFBContainer(data) {
		return nil, ErrEncryptedFile
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		if isEncryptionError(err) {
			return nil, ErrEncryptedFile
		}
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}

	// First sheet only; extra sheets are ignored without error
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	return zipRows(rows)
}

func parseCSVSheet(data []byte) ([]RowRecord, error) {
	// Korean marketplaces still export EUC-KR encoded CSVs; transcode when the
	// payload is not valid UTF-8
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), data)
		if err == nil {
			data = decoded
		}
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	records, _, err := ParseCSVWithDetectedDelimiter(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, ErrEmptySheet) {
			return nil, ErrEmptySheet
		}
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	return zipRows(records)
}

// zipRows builds one record per data row by zipping header cell i to data
// cell i. Blank header cells contribute no key; rows whose every value is
// empty are dropped.
func zipRows(rows [][]string) ([]RowRecord, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	headers := rows[0]
	records := make([]RowRecord, 0, len(rows)-1)

	for _, row := range rows[1:] {
		record := make(RowRecord, len(headers))
		populated := false
		for i, header := range headers {
			if strings.TrimSpace(header) == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = row[i]
			}
			record[header] = value
			if strings.TrimSpace(value) != "" {
				populated = true
			}
		}
		if populated {
			records = append(records, record)
		}
	}

	return records, nil
}

// isEncryptionError reports whether a workbook decode failure looks like an
// encryption/password problem. Decoders are not consistent about the error
// they raise for CFB-wrapped encrypted workbooks, so match on keywords too.
func isEncryptionError(err error) bool {
	if errors.Is(err, excelize.ErrWorkbookPassword) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, keyword := range []string{"password", "encrypt", "cfb"} {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}
