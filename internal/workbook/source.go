package workbook

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// sheetSource reads raw rows of a named sheet. The first row is the header.
type sheetSource interface {
	SheetNames() []string
	Rows(sheet string) ([][]string, error)
	Close() error
}

// openSource picks the reader from the file extension; anything but .xls goes through excelize.
func openSource(name string, data []byte) (sheetSource, error) {
	if strings.EqualFold(filepath.Ext(name), ".xls") {
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		return &xlsSource{wb: wb}, nil
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &xlsxSource{f: f}, nil
}

type xlsxSource struct {
	f *excelize.File
}

func (s *xlsxSource) SheetNames() []string {
	return s.f.GetSheetList()
}

func (s *xlsxSource) Rows(sheet string) ([][]string, error) {
	// Raw values keep dates as Excel serials instead of locale-formatted text.
	return s.f.GetRows(sheet, excelize.Options{RawCellValue: true})
}

func (s *xlsxSource) Close() error {
	return s.f.Close()
}

type xlsSource struct {
	wb *xls.WorkBook
}

func (s *xlsSource) SheetNames() []string {
	names := make([]string, 0, s.wb.NumSheets())
	for i := 0; i < s.wb.NumSheets(); i++ {
		if sheet := s.wb.GetSheet(i); sheet != nil {
			names = append(names, sheet.Name)
		}
	}
	return names
}

func (s *xlsSource) Rows(name string) ([][]string, error) {
	for i := 0; i < s.wb.NumSheets(); i++ {
		sheet := s.wb.GetSheet(i)
		if sheet == nil || sheet.Name != name {
			continue
		}

		last := int(sheet.MaxRow)
		rows := make([][]string, 0, last+1)
		for r := 0; r <= last; r++ {
			row := sheet.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		return rows, nil
	}
	return nil, fmt.Errorf("sheet %s not found", name)
}

func (s *xlsSource) Close() error {
	return nil
}
