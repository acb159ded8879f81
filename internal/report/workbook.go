// Package report renders a business day into an .xlsx workbook.
package report

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/stock"
	"github.com/andresuchdata/shoppos/backend-go/internal/summary"
)

// MimeType is the content type of the rendered workbook.
const MimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	SheetOverview = "สรุปยอด"
	SheetProducts = "ยอดขายสินค้า"
	SheetBills    = "บิล"
	SheetStock    = "สต็อก"
	SheetCash     = "เงินสด"
)

// Cash is the drawer section of the report.
type Cash struct {
	StartingFloat    decimal.Decimal
	CashSalesRevenue decimal.Decimal
	ExpectedCash     decimal.Decimal
	ActualCash       decimal.Decimal
	Variance         decimal.Decimal
	Counted          bool
}

type Data struct {
	Date        domain.BusinessDate
	Summary     summary.DailySummary
	Stock       []stock.Reconciliation
	StockTotals stock.DayTotals
	Cash        Cash
}

// Build lays the day out over five sheets.
func Build(d Data) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetProducts, SheetBills, SheetStock, SheetCash} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("add sheet %s: %w", name, err)
		}
	}

	w := &sheetWriter{f: f}
	t := d.Summary.Totals

	w.sheet(SheetOverview)
	w.row("วันที่", d.Date.String())
	w.row("จำนวนบิล", t.BillCount)
	w.row("ยอดขายรวม", money(t.Revenue))
	w.row("เงินสด", money(t.CashRevenue))
	w.row("โอน", money(t.TransferRevenue))
	w.row("จำนวนชิ้น", t.Items)
	w.row("สินค้านับแล้ว", d.StockTotals.Counted)
	w.row("สินค้ายังไม่นับ", d.StockTotals.NotCounted)
	w.row("ส่วนต่างสต็อกสุทธิ", d.StockTotals.NetVariance)
	if len(d.Summary.Staff) > 0 {
		w.row()
		w.row("พนักงาน", "บิล", "ยอดขาย")
		for _, s := range d.Summary.Staff {
			w.row(s.Staff, s.Bills, money(s.Revenue))
		}
	}

	w.sheet(SheetProducts)
	w.row("รหัสสินค้า", "ชื่อสินค้า", "ราคาต่อชิ้น", "จำนวน", "ยอดขาย", "ราคาไม่คงที่")
	for _, p := range d.Summary.Products {
		w.row(p.SKU, p.Name, money(p.UnitPrice), p.TotalQuantity, money(p.TotalRevenue), p.PriceVaries)
	}

	w.sheet(SheetBills)
	w.row("บิล", "เวลา", "พนักงาน", "จำนวนชิ้น", "ยอดรวม", "การชำระเงิน")
	for _, b := range d.Summary.Bills {
		w.row(b.BillID, b.Time, b.Staff, b.ItemCount, money(b.Total), b.PaymentMethod.Label())
	}

	w.sheet(SheetStock)
	w.row("รหัสสินค้า", "ชื่อสินค้า", "ยอดยกมา", "ได้เพิ่ม", "พร้อมขาย", "ขาย", "ควรเหลือ",
		"ลังคงเหลือ", "แพ็คคงเหลือ", "นับจริง", "ส่วนต่าง", "สถานะ")
	for _, r := range d.Stock {
		w.row(r.SKU, r.Name, r.OpeningBalance, r.ReadyToSellGainPieces, r.TotalAvailablePieces,
			r.SoldPieces, r.ExpectedRemainingPieces, r.RemainingCrates, r.RemainingPacks,
			optional(r.PhysicalCount), optional(r.VarianceFromCount), string(r.Status))
	}

	w.sheet(SheetCash)
	w.row("เงินทอนตั้งต้น", money(d.Cash.StartingFloat))
	w.row("ยอดขายเงินสด", money(d.Cash.CashSalesRevenue))
	w.row("ยอดควรมี", money(d.Cash.ExpectedCash))
	if d.Cash.Counted {
		w.row("นับเงินจริง", money(d.Cash.ActualCash))
		w.row("ส่วนต่าง", money(d.Cash.Variance))
	} else {
		w.row("นับเงินจริง", "-")
		w.row("ส่วนต่าง", "-")
	}

	if w.err != nil {
		return nil, w.err
	}
	return f, nil
}

// Bytes renders the workbook into memory.
func Bytes(d Data) ([]byte, error) {
	f, err := Build(d)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetWriter struct {
	f    *excelize.File
	name string
	next int
	err  error
}

func (w *sheetWriter) sheet(name string) {
	w.name = name
	w.next = 1
}

func (w *sheetWriter) row(values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		w.err = err
		return
	}
	w.next++
	if len(values) == 0 {
		return
	}
	if err := w.f.SetSheetRow(w.name, cell, &values); err != nil {
		w.err = fmt.Errorf("write %s!%s: %w", w.name, cell, err)
	}
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func optional(v *int) interface{} {
	if v == nil {
		return "-"
	}
	return *v
}
