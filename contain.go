package enhance

import (
	"github.com/aretw0/enhance/pkg/domain"
)

// contain runs fn and turns a panic into a *domain.PanicError.
func contain(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.PanicError{Value: r}
		}
	}()
	return fn()
}
