package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/maktaba-io/maktaba/log"
	"github.com/maktaba-io/maktaba/model"
	"github.com/maktaba-io/maktaba/util"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Expected columns of a member import file. Header names are matched
// case-insensitively after snake-casing, so "Full Name" and "FULL_NAME"
// both land on full_name.
var importColumns = []string{"full_name", "email", "reg_number", "fee_balance"}

// ImportMembers creates one member per data row. Each row commits on its
// own: a bad row is recorded in the report and does not roll back the
// rows before it. A missing required column aborts the whole import
// before any row is processed.
func (s *Store) ImportMembers(header []string, rows [][]string) (*model.ImportReport, error) {
	columnMap := map[string]int{}
	for _, col := range importColumns {
		columnMap[col] = -1
	}
	for index, name := range header {
		cleaned := util.SnakeCase(name)
		if _, ok := columnMap[cleaned]; ok {
			columnMap[cleaned] = index
		}
	}
	for _, col := range importColumns {
		if columnMap[col] == -1 {
			return nil, NewValidationError("importingMembers").
				Add("import_file", fmt.Sprintf("missing required column %q; expected columns: %s", col, strings.Join(importColumns, ", ")))
		}
	}

	report := &model.ImportReport{
		BatchID: uuid.New().String(),
		Errors:  []string{},
	}

	// Header is row 1.
	rowNumber := 1
	for _, row := range rows {
		rowNumber++
		if blankRow(row) {
			continue
		}

		create := &model.MemberCreateRequest{
			FullName:  cell(row, columnMap["full_name"]),
			Email:     cell(row, columnMap["email"]),
			RegNumber: cell(row, columnMap["reg_number"]),
		}

		if verr := validateImportRow(create, cell(row, columnMap["fee_balance"])); verr.HasErrors() {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %s", rowNumber, verr.Error()))
			continue
		}
		feeBalance, _ := strconv.ParseFloat(cell(row, columnMap["fee_balance"]), 64)

		// Initial credential convention: first name + registration number.
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(util.FirstName(create.FullName)+create.RegNumber), bcrypt.DefaultCost)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: failed to hash generated password", rowNumber))
			continue
		}

		if _, err := s.CreateMember(&model.Member{
			FullName:     create.FullName,
			Email:        create.Email,
			RegNumber:    create.RegNumber,
			Role:         model.RoleStudent,
			PasswordHash: string(passwordHash),
			FeeBalance:   feeBalance,
		}); err != nil {
			report.Failed++
			if isUniqueViolation(err) {
				report.Errors = append(report.Errors, fmt.Sprintf("row %d: email or registration number already exists", rowNumber))
			} else {
				report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", rowNumber, err))
			}
			continue
		}

		report.Imported++
	}

	log.Info("Member import finished",
		zap.String("batch_id", report.BatchID),
		zap.Int("imported", report.Imported),
		zap.Int("failed", report.Failed))
	return report, nil
}

func validateImportRow(create *model.MemberCreateRequest, feeBalance string) *ValidationError {
	verr := NewValidationError("importingMembers")
	if create.FullName == "" {
		verr.Add("full_name", "is required")
	}
	if create.Email == "" {
		verr.Add("email", "is required")
	} else if !util.ValidateEmail(create.Email) {
		verr.Add("email", "is not a valid email address")
	}
	if create.RegNumber == "" {
		verr.Add("reg_number", "is required")
	}
	if feeBalance == "" {
		verr.Add("fee_balance", "is required")
	} else if parsed, err := strconv.ParseFloat(feeBalance, 64); err != nil || parsed < 0 {
		verr.Add("fee_balance", "must be a non-negative number")
	}
	return verr
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func blankRow(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
