package wizard

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/enrollment-wizard/internal/models"
)

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func intPtr(v int) *int {
	return &v
}

func completeSchema() models.PaymentSchema {
	return models.PaymentSchema{
		CourseFee:            dec(1000),
		DownPayment:          dec(200),
		NumberOfInstallments: intPtr(4),
		InstallmentStartDate: "2024-01-01",
		PaymentFrequency:     models.FrequencyMonthly,
	}
}

func validPersonal() models.PersonalDetails {
	return models.PersonalDetails{
		FirstName: "Nimali",
		LastName:  "Perera",
		DOB:       "1999-05-20",
		NIC:       "991234567V",
		Address:   "12 Temple Road, Kandy",
		Mobile:    "+94771234567",
		Email:     "nimali@example.com",
	}
}

func validForm() models.WizardForm {
	return models.WizardForm{
		Personal: validPersonal(),
		Enrollments: []models.EnrollmentSelection{
			{Pathway: models.PathwayHD, CourseID: "C1", CourseName: "HD in Computing", BatchID: "B1", BatchName: "2024 Jan"},
		},
		PaymentSchema:     map[string]models.PaymentSchema{"C1": completeSchema()},
		RequiredDocuments: []string{},
	}
}

func loadedCatalog(docs ...models.RequiredDocument) DocumentCatalog {
	return DocumentCatalog{Documents: docs, Loaded: true}
}
