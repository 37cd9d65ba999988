package utils

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

func buildWorkbook(t *testing.T, rows [][]interface{}, password string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("failed to build cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to set sheet row: %v", err)
		}
	}

	var buf bytes.Buffer
	var err error
	if password != "" {
		err = f.Write(&buf, excelize.Options{Password: password})
	} else {
		err = f.Write(&buf)
	}
	if err != nil {
		t.Fatalf("failed to encode workbook: %v", err)
	}
	return buf.Bytes()
}

func TestParseSheetXLSXRoundTrip(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"수령인", "수령인전화번호", "주소", "옵션상품", "수량"},
		{"홍길동", "010-1234-5678", "서울시 강남구", "사과 5kg", "3"},
	}, "")

	records, err := ParseSheet("orders.xlsx", data)
	if err != nil {
		t.Fatalf("ParseSheet returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	expected := map[string]string{
		"수령인":      "홍길동",
		"수령인전화번호": "010-1234-5678",
		"주소":        "서울시 강남구",
		"옵션상품":    "사과 5kg",
		"수량":        "3",
	}
	for key, want := range expected {
		if got := records[0][key]; got != want {
			t.Errorf("records[0][%q] = %q, expected %q", key, got, want)
		}
	}
}

func TestParseSheetSkipsBlankHeadersAndEmptyRows(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"수령인", "", "수량"},
		{"홍길동", "ignored", "3"},
		{"", "", ""},
		{"김철수", "also ignored", "1"},
	}, "")

	records, err := ParseSheet("orders.xlsx", data)
	if err != nil {
		t.Fatalf("ParseSheet returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if _, exists := records[0][""]; exists {
		t.Error("blank header cell should not produce a key")
	}
	if records[1]["수령인"] != "김철수" {
		t.Errorf("records[1][수령인] = %q, expected 김철수", records[1]["수령인"])
	}
}

func TestParseSheetEmptyWorkbook(t *testing.T) {
	data := buildWorkbook(t, nil, "")

	_, err := ParseSheet("orders.xlsx", data)
	if !errors.Is(err, ErrEmptySheet) {
		t.Errorf("expected ErrEmptySheet, got %v", err)
	}
}

func TestParseSheetUnsupportedExtension(t *testing.T) {
	_, err := ParseSheet("orders.pdf", []byte("whatever"))
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if errors.Is(err, ErrEmptySheet) || errors.Is(err, ErrEncryptedFile) {
		t.Errorf("unexpected sentinel error: %v", err)
	}
}

func TestParseSheetEncryptedWorkbook(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"수령인", "수량"},
		{"홍길동", "3"},
	}, "secret")

	_, err := ParseSheet("orders.xlsx", data)
	if !errors.Is(err, ErrEncryptedFile) {
		t.Fatalf("expected ErrEncryptedFile, got %v", err)
	}
}

func TestDecryptWorkbook(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"수령인", "수량"},
		{"홍길동", "3"},
	}, "secret")

	if _, err := DecryptWorkbook(data, "wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword for wrong password, got %v", err)
	}

	decrypted, err := DecryptWorkbook(data, "secret")
	if err != nil {
		t.Fatalf("DecryptWorkbook returned error: %v", err)
	}

	records, err := ParseSheet("orders.xlsx", decrypted)
	if err != nil {
		t.Fatalf("ParseSheet on decrypted workbook returned error: %v", err)
	}
	if len(records) != 1 || records[0]["수령인"] != "홍길동" {
		t.Errorf("unexpected records after decrypt: %+v", records)
	}
}

func TestParseSheetCSV(t *testing.T) {
	csvData := "수령인,수령인전화번호,주소,옵션상품,수량\n홍길동,010-1234-5678,서울시 강남구,사과 5kg,3\n"

	records, err := ParseSheet("orders.csv", []byte(csvData))
	if err != nil {
		t.Fatalf("ParseSheet returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0]["옵션상품"] != "사과 5kg" {
		t.Errorf("records[0][옵션상품] = %q, expected 사과 5kg", records[0]["옵션상품"])
	}
}

func TestParseSheetCSVEUCKR(t *testing.T) {
	utf8Data := "수령인,수량\n홍길동,3\n"
	eucKRData, _, err := transform.Bytes(korean.EUCKR.NewEncoder(), []byte(utf8Data))
	if err != nil {
		t.Fatalf("failed to encode test fixture: %v", err)
	}

	records, err := ParseSheet("orders.csv", eucKRData)
	if err != nil {
		t.Fatalf("ParseSheet returned error: %v", err)
	}
	if len(records) != 1 || records[0]["수령인"] != "홍길동" {
		t.Errorf("unexpected records from EUC-KR CSV: %+v", records)
	}
}

func TestAnalyzeCSVDelimiters(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		delimiter rune
	}{
		{"comma", "수령인,주소,수량\n홍길동,서울,3\n김철수,부산,1\n", ','},
		{"semicolon", "수령인;주소;수량\n홍길동;서울;3\n김철수;부산;1\n", ';'},
		{"tab", "수령인\t주소\t수량\n홍길동\t서울\t3\n김철수\t부산\t1\n", '\t'},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			analysis, err := AnalyzeCSV(strings.NewReader(test.content))
			if err != nil {
				t.Fatalf("AnalyzeCSV returned error: %v", err)
			}
			if analysis.Delimiter != test.delimiter {
				t.Errorf("detected delimiter %q, expected %q", analysis.Delimiter, test.delimiter)
			}
			if !analysis.HasHeader {
				t.Error("expected header row to be detected")
			}
		})
	}
}
