// backend-go/internal/repository/tables.go
package repository

// Table names and column headers of the shop spreadsheet. The headers are the
// ones the staff already read and edit by hand, so they stay in Thai.
const (
	ProductsTable  = "สินค้า"
	InventoryTable = "สต็อกรายวัน"
	CashTable      = "นับเงินรายวัน"
)

// Sales columns; each business day gets its own tab titled dd-mm-yyyy.
const (
	colSaleTime      = "เวลา"
	colSaleBill      = "บิล"
	colSaleStaff     = "พนักงาน"
	colSaleSKU       = "รหัสสินค้า"
	colSaleName      = "ชื่อสินค้า"
	colSaleQty       = "จำนวน"
	colSaleUnitPrice = "ราคาต่อชิ้น"
	colSaleLineTotal = "ราคารวม"
	colSaleBillTotal = "ยอดรวมทั้งบิล"
	colSaleReceived  = "รับเงิน"
	colSaleChange    = "เงินทอน"
	colSalePayment   = "การชำระเงิน"
)

var SalesHeaders = []string{
	colSaleTime, colSaleBill, colSaleStaff, colSaleSKU, colSaleName, colSaleQty,
	colSaleUnitPrice, colSaleLineTotal, colSaleBillTotal, colSaleReceived, colSaleChange,
	colSalePayment,
}

const (
	colInvDate           = "วันที่"
	colInvSKU            = "รหัสสินค้า"
	colInvName           = "ชื่อสินค้า"
	colInvOpening        = "ยอดยกมา"
	colInvWithdrawPieces = "เบิก_ชิ้น"
	colInvWithdrawPacks  = "เบิก_แพ็ค"
	colInvWithdrawCrates = "เบิก_ลัง"
	colInvSplitPacks     = "แกะ_แพ็ค"
	colInvSplitCrates    = "แกะ_ลัง"
	colInvCount          = "นับจริง"
)

var InventoryHeaders = []string{
	colInvDate, colInvSKU, colInvName, colInvOpening, colInvWithdrawPieces,
	colInvWithdrawPacks, colInvWithdrawCrates, colInvSplitPacks, colInvSplitCrates, colInvCount,
}

const (
	colCashDate     = "วันที่"
	colCashFloat    = "เงินทอนตั้งต้น"
	colCashSales    = "ยอดขายเงินสด"
	colCashExpected = "ยอดควรมี"
	colCashActual   = "นับเงินจริง"
	colCashVariance = "ส่วนต่าง"
)

var CashHeaders = []string{
	colCashDate, colCashFloat, colCashSales, colCashExpected, colCashActual, colCashVariance,
}

// Product columns, each with the alternative spellings seen in the wild.
var (
	colProductSKU      = []string{"รหัส SKU", "รหัสสินค้า", "sku_code"}
	colProductName     = []string{"ชื่อสินค้า", "name"}
	colProductPrice    = []string{"ราคา (บาท)", "ราคา", "price"}
	colProductImage    = []string{"Path รูปภาพ", "รูป", "image"}
	colProductCategory = []string{"หมวดหมู่", "category"}
	colProductTracked  = []string{"นับสต็อก", "is_inventory"}
	colPiecesPerPack   = []string{"ชิ้นต่อแพ็ค", "pieces_per_pack"}
	colPacksPerCrate   = []string{"แพ็คต่อลัง", "packs_per_crate"}
)

var ProductHeaders = []string{
	"รหัส SKU", "ชื่อสินค้า", "ราคา (บาท)", "Path รูปภาพ", "หมวดหมู่",
	"นับสต็อก", "ชิ้นต่อแพ็ค", "แพ็คต่อลัง",
}
