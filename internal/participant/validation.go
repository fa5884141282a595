package participant

import (
	"errors"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidations 向gin的校验器注册参与者相关的校验规则，可重复调用
func RegisterValidations() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin的校验器不是validator/v10")
			return
		}
		registerErr = v.RegisterValidation("personname", validatePersonName)
	})
	return registerErr
}

// validatePersonName 要求名字非空白，且不含","和";"。
// 名称存为"Nachname, Vorname"，消息中多个名称以";"分隔。
func validatePersonName(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return strings.TrimSpace(s) != "" && !strings.ContainsAny(s, ",;")
}
