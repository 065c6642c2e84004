package validate

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// 土耳其手机号：05 开头共 11 位数字（示例 05xxxxxxxxx）
var (
	phoneStripRe = regexp.MustCompile(`[\s\-()]`)
	trPhoneRe    = regexp.MustCompile(`^05\d{9}$`)
)

// TRPhone 校验土耳其手机号格式，空值视为合法（手机号可选）
func TRPhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if phone == "" {
		return true
	}
	phone = phoneStripRe.ReplaceAllString(phone, "")
	return trPhoneRe.MatchString(phone)
}

// Normalize 去除手机号中的空格、连字符和括号
func Normalize(phone string) string {
	return phoneStripRe.ReplaceAllString(phone, "")
}

// Register 将自定义校验器注册到 Gin 的 binding 引擎
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("tr_phone", TRPhone)
}
