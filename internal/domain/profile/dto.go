package profile

import "github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/validator"

type AddHospitalRequest struct {
	Name string `json:"hospital_name"`
}

func (r *AddHospitalRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "hospital_name",
			Message: "hospital_name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AddCustomerRequest struct {
	Name       string `json:"customer_name"`
	Hospital   string `json:"hospital"`
	Department string `json:"department"`
	Phone      string `json:"phone,omitempty"`
}

func (r *AddCustomerRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "customer_name",
			Message: "customer_name is required",
		})
	}
	if validator.IsEmpty(r.Hospital) {
		errs = append(errs, validator.ValidationError{
			Field:   "hospital",
			Message: "hospital is required",
		})
	}
	if validator.IsEmpty(r.Department) {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpsertDealRequest struct {
	ID          string  `json:"deal_id,omitempty"`
	Product     string  `json:"product"`
	Stage       string  `json:"stage"`
	Value       float64 `json:"value"`
	Probability int     `json:"probability"`
}

func (r *UpsertDealRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Product) {
		errs = append(errs, validator.ValidationError{
			Field:   "product",
			Message: "product is required",
		})
	}
	if !IsValidStage(DealStage(r.Stage)) {
		errs = append(errs, validator.ValidationError{
			Field:   "stage",
			Message: "stage must be one of the pipeline stages",
		})
	}
	if r.Probability < 0 || r.Probability > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "probability",
			Message: "probability must be between 0 and 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
