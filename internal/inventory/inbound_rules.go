package inventory

import (
	"strings"

	"gudang-backend/internal/apperr"
	"gudang-backend/internal/models"
)

// InboundField names a conditionally required stock-in field.
type InboundField string

const (
	FieldPlateNumber  InboundField = "plate_number"
	FieldDriver       InboundField = "driver"
	FieldDeliveryNote InboundField = "delivery_note"
	FieldReturnBranch InboundField = "return_branch_id"
)

var inboundFieldLabel = map[InboundField]string{
	FieldPlateNumber:  "Nomor polisi",
	FieldDriver:       "Sopir",
	FieldDeliveryNote: "Surat jalan",
	FieldReturnBranch: "Cabang retur",
}

// InboundRules lists the extra fields each inbound category code requires.
// Codes not listed require nothing.
var InboundRules = map[string][]InboundField{
	models.InboundCodeSupplier:      {FieldPlateNumber, FieldDriver, FieldDeliveryNote},
	models.InboundCodeReturCabang:   {FieldReturnBranch},
	models.InboundCodeReturKonsumen: {FieldDeliveryNote},
}

func inboundFieldValue(in *models.StockIn, f InboundField) string {
	switch f {
	case FieldPlateNumber:
		return in.PlateNumber
	case FieldDriver:
		return in.Driver
	case FieldDeliveryNote:
		return in.DeliveryNote
	case FieldReturnBranch:
		if in.ReturnBranchID != nil {
			return *in.ReturnBranchID
		}
	}
	return ""
}

// CheckInboundRules rejects in when a field required by code is blank. The
// first missing field names the error.
func CheckInboundRules(code string, in *models.StockIn) error {
	for _, f := range InboundRules[code] {
		if strings.TrimSpace(inboundFieldValue(in, f)) == "" {
			return apperr.Validation(inboundFieldLabel[f] + " harus diisi")
		}
	}
	return nil
}
