package customer

import (
	"fmt"

	"github.com/theirongolddev/custform/internal/form"
	"github.com/theirongolddev/custform/internal/model"
)

// AddressForm is one address sub-form inside the customer's address list.
type AddressForm struct {
	*form.Group

	AddressType *form.Field[model.AddressType]
	Street1     *form.Field[string]
	Street2     *form.Field[string]
	City        *form.Field[string]
	State       *form.Field[string]
	Zip         *form.Field[string]
}

// BuildAddress returns an empty address sub-form: type home, street1 and
// city required with at least 3 characters, state and zip required,
// street2 optional.
func BuildAddress() *AddressForm {
	a := &AddressForm{
		AddressType: form.NewField(model.AddressHome),
		Street1:     form.NewField("", form.Required, form.MinLength(3)),
		Street2:     form.NewField(""),
		City:        form.NewField("", form.Required, form.MinLength(3)),
		State:       form.NewField("", form.Required),
		Zip:         form.NewField("", form.Required),
	}
	a.Group = form.NewGroup().Add(a.AddressType, a.Street1, a.Street2, a.City, a.State, a.Zip)
	return a
}

// Value returns the address record.
func (a *AddressForm) Value() model.Address {
	return model.Address{
		AddressType: a.AddressType.Value(),
		Street1:     a.Street1.Value(),
		Street2:     a.Street2.Value(),
		City:        a.City.Value(),
		State:       a.State.Value(),
		Zip:         a.Zip.Value(),
	}
}

// load replays addr as user input.
func (a *AddressForm) load(addr model.Address) {
	if addr.AddressType != "" {
		a.AddressType.SetValue(addr.AddressType)
	}
	for _, in := range []struct {
		f *form.Field[string]
		v string
	}{
		{a.Street1, addr.Street1},
		{a.Street2, addr.Street2},
		{a.City, addr.City},
		{a.State, addr.State},
		{a.Zip, addr.Zip},
	} {
		in.f.SetValue(in.v)
		in.f.Touch()
	}
	a.AddressType.Touch()
}

func (a *AddressForm) problems(i int) []Problem {
	prefix := fmt.Sprintf("addresses[%d].", i)
	var out []Problem
	out = appendProblem(out, prefix+"addressType", a.AddressType)
	out = appendProblem(out, prefix+"street1", a.Street1)
	out = appendProblem(out, prefix+"street2", a.Street2)
	out = appendProblem(out, prefix+"city", a.City)
	out = appendProblem(out, prefix+"state", a.State)
	out = appendProblem(out, prefix+"zip", a.Zip)
	return out
}
