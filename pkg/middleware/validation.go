package middleware

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// InitValidator initializes the validator with custom validators
func InitValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		registerCustom(validate)

		// Custom validators must also reach Gin's binding validator
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustom(v)
		}
	})

	return validate
}

// GetValidator returns the singleton validator instance
func GetValidator() *validator.Validate {
	if validate == nil {
		return InitValidator()
	}
	return validate
}

func registerCustom(v *validator.Validate) {
	_ = v.RegisterValidation("sku", validateSKU)
	_ = v.RegisterValidation("warehouse_id", validateWarehouseID)
	_ = v.RegisterValidation("movement_type", validateMovementType)
	_ = v.RegisterValidation("batch_number", validateBatchNumber)

	// Use JSON tag names in validation error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
}

var (
	skuRegex       = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{2,49}$`)
	warehouseRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{1,31}$`)
	batchRegex     = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,49}$`)
)

func validateSKU(fl validator.FieldLevel) bool {
	return skuRegex.MatchString(fl.Field().String())
}

func validateWarehouseID(fl validator.FieldLevel) bool {
	return warehouseRegex.MatchString(fl.Field().String())
}

func validateMovementType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "STOCK_IN", "STOCK_OUT", "ADJUSTMENT", "RESERVATION", "RELEASE", "TRANSFER", "DAMAGE", "RETURN":
		return true
	}
	return false
}

func validateBatchNumber(fl validator.FieldLevel) bool {
	return batchRegex.MatchString(fl.Field().String())
}

// ValidationErrorFormatter formats validator errors into a field map
func ValidationErrorFormatter(err error) map[string]string {
	fields := make(map[string]string)

	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
	}

	return fields
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "value is below the minimum of " + fe.Param()
	case "max":
		return "value is above the maximum of " + fe.Param()
	case "gt":
		return "value must be greater than " + fe.Param()
	case "gte":
		return "value must be at least " + fe.Param()
	case "sku":
		return "must be a valid SKU (uppercase alphanumeric, 3-50 characters)"
	case "warehouse_id":
		return "must be a valid warehouse identifier"
	case "movement_type":
		return "must be a valid movement type"
	case "batch_number":
		return "must be a valid batch number"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed validation: " + fe.Tag()
	}
}
