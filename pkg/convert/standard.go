package convert

import (
	"net/mail"
	"os"
	"strconv"
)

// Standard registers conversions for standard library types that expose
// neither encoding.TextUnmarshaler nor flag.Value.
func Standard(r *Registry) {
	RegisterFunc(r, func(s string) (os.FileMode, error) {
		mode, err := strconv.ParseUint(s, 8, 32)
		return os.FileMode(mode), err
	})
	RegisterFunc(r, func(s string) (mail.Address, error) {
		addr, err := mail.ParseAddress(s)
		if err != nil {
			return mail.Address{}, err
		}
		return *addr, nil
	})
}
