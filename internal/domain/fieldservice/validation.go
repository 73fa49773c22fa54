package fieldservice

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var phoneFormat = regexp.MustCompile(`^(\+351)?[ ]?\d{3}[ ]?\d{3}[ ]?\d{3}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"ptplate": func(fl validator.FieldLevel) bool {
			return ValidPlate(fl.Field().String())
		},
		"ptphone": func(fl validator.FieldLevel) bool {
			return phoneFormat.MatchString(fl.Field().String())
		},
		"modelyear": func(fl validator.FieldLevel) bool {
			year := fl.Field().Int()
			return year >= MinModelYear && year <= int64(maxModelYear())
		},
		"known": func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(interface{ Valid() bool })
			return ok && s.Valid()
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		i := sl.Current().Interface().(Intervention)
		if i.Budget != nil && i.Budget.IsNegative() {
			sl.ReportError(i.Budget, "valorOrcamento", "Budget", "nonnegative", "")
		}
	}, Intervention{})

	return v
}

func maxModelYear() int {
	return time.Now().Year() + 1
}

// Validate checks an entity against its field rules. Failures come back as
// a *ValidationError keyed by JSON field name.
func Validate(entity any) error {
	err := validate.Struct(entity)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = message(fe)
		}
	}
	return &ValidationError{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório."
	case "email":
		return "Email inválido."
	case "ptphone":
		return "Telefone inválido."
	case "ptplate":
		return "Matrícula inválida. Use um formato PT válido (ex: AA-11-AA)."
	case "modelyear":
		return fmt.Sprintf("Ano inválido. Deve ser entre %d e %d.", MinModelYear, maxModelYear())
	case "min":
		return fmt.Sprintf("Deve ter pelo menos %s caracteres.", fe.Param())
	case "max":
		return fmt.Sprintf("Não pode exceder %s caracteres.", fe.Param())
	case "gtfield":
		return "A data de fim deve ser posterior à data de início."
	case "nonnegative":
		return "O valor não pode ser negativo."
	case "len", "numeric":
		return "Formato inválido."
	default:
		return "Valor inválido."
	}
}
