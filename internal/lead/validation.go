package lead

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hitoshi/leadman/internal/model"
)

// newValidator はリード入力用のvalidatorを生成する。
// 閉じたenum集合（sector, leadstatus, leadsource, founder）のカスタム検証を登録し、
// エラー報告のフィールド名にはjsonタグ名を使用する。
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// enumの検証は黙って既定値に丸めず、不正値として報告する
	_ = v.RegisterValidation("sector", func(fl validator.FieldLevel) bool {
		return model.Sector(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("leadstatus", func(fl validator.FieldLevel) bool {
		return model.LeadStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("leadsource", func(fl validator.FieldLevel) bool {
		return model.LeadSource(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("founder", func(fl validator.FieldLevel) bool {
		return model.Founder(fl.Field().String()).IsValid()
	})

	return v
}

// toValidationError はvalidatorのエラーを統一フォーマットに変換する。
// 最初の1件ではなく、不正なフィールドすべてを列挙する。
func toValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]model.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, model.FieldError{
			Field:  fe.Field(),
			Reason: reasonForTag(fe),
		})
	}

	return &model.ValidationError{Fields: fields}
}

// reasonForTag は検証タグごとのエラー理由を返す。
func reasonForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "必須項目です"
	case "email":
		return "メールアドレスの形式が不正です"
	case "sector", "leadstatus", "leadsource", "founder":
		return fmt.Sprintf("定義されていない値です: %v", fe.Value())
	default:
		return "不正な値です"
	}
}
