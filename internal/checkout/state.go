package checkout

import "strings"

// Payment is the selected payment method.
type Payment string

const (
	PaymentPix  Payment = "PIX"
	PaymentCard Payment = "CARD"
	PaymentCash Payment = "CASH"
)

// State is the live checkout form. All fields are editable at once; the
// three step flags are derived from current values, never stored. While a
// saved address is selected its fields shadow the typed ones.
type State struct {
	FullName   string
	Phone      string
	CEP        string
	Street     string
	Number     string
	District   string
	Complement string

	Payment    Payment
	NeedChange *bool
	CashChange string

	selected      *Address
	useNewAddress bool
}

func NewState() *State {
	return &State{Payment: PaymentPix}
}

// SetPayment switches methods. Leaving cash resets the need-change choice
// and any entered amount.
func (s *State) SetPayment(p Payment) {
	s.Payment = p
	if p != PaymentCash {
		s.NeedChange = nil
		s.CashChange = ""
	}
}

// SetNeedChange records the cash sub-choice. "No change needed" clears the
// entered amount.
func (s *State) SetNeedChange(need bool) {
	s.NeedChange = &need
	if !need {
		s.CashChange = ""
	}
}

func (s *State) SetCashChange(amount string) {
	s.CashChange = MaskMoney(amount)
}

// SelectAddress populates the form from a saved address and shadows the
// typed fields with it.
func (s *State) SelectAddress(a Address) {
	s.selected = &a
	s.useNewAddress = false
	s.FullName = a.FullName
	s.Phone = a.Phone
	s.CEP = a.CEP
	s.Street = a.Street
	s.Number = a.Number
	s.District = a.District
	s.Complement = a.Complement
}

// UseNewAddress clears the selection and empties the form.
func (s *State) UseNewAddress() {
	s.selected = nil
	s.useNewAddress = true
	s.FullName = ""
	s.Phone = ""
	s.CEP = ""
	s.Street = ""
	s.Number = ""
	s.District = ""
	s.Complement = ""
}

// ClearSelection drops the selection and empties the form, as when the
// selected saved address is deleted.
func (s *State) ClearSelection() {
	s.selected = nil
	s.useNewAddress = false
	s.FullName = ""
	s.Phone = ""
	s.CEP = ""
	s.Street = ""
	s.Number = ""
	s.District = ""
	s.Complement = ""
}

func (s *State) usingSaved() bool {
	return !s.useNewAddress && s.selected != nil
}

func (s *State) fullName() string {
	if s.usingSaved() {
		return s.selected.FullName
	}
	return s.FullName
}

func (s *State) phone() string {
	if s.usingSaved() {
		return s.selected.Phone
	}
	return s.Phone
}

func (s *State) cep() string {
	if s.usingSaved() {
		return s.selected.CEP
	}
	return s.CEP
}

func (s *State) street() string {
	if s.usingSaved() {
		return s.selected.Street
	}
	return s.Street
}

func (s *State) number() string {
	if s.usingSaved() {
		return s.selected.Number
	}
	return s.Number
}

func (s *State) district() string {
	if s.usingSaved() {
		return s.selected.District
	}
	return s.District
}

func (s *State) complement() string {
	if s.usingSaved() {
		return s.selected.Complement
	}
	return s.Complement
}

// IdentityDone: non-empty name and at least 10 phone digits.
func (s *State) IdentityDone() bool {
	return strings.TrimSpace(s.fullName()) != "" && len(DigitsOnly(s.phone())) >= 10
}

// AddressDone: exactly 8 CEP digits plus street, number and district.
func (s *State) AddressDone() bool {
	return len(DigitsOnly(s.cep())) == 8 &&
		strings.TrimSpace(s.street()) != "" &&
		strings.TrimSpace(s.number()) != "" &&
		strings.TrimSpace(s.district()) != ""
}

// PaymentDone: any non-cash method, or cash with an explicit "no change"
// choice, or cash with a non-empty change amount. Presence of the string is
// the sole criterion; the amount is not validated numerically.
func (s *State) PaymentDone() bool {
	if s.Payment != PaymentCash {
		return true
	}
	if s.NeedChange == nil {
		return false
	}
	if !*s.NeedChange {
		return true
	}
	return strings.TrimSpace(s.CashChange) != ""
}

// CanSubmit gates the order: non-empty cart and all three steps complete.
// Store hours are checked separately, live at submission time.
func (s *State) CanSubmit(cartLines int) bool {
	return cartLines > 0 && s.IdentityDone() && s.AddressDone() && s.PaymentDone()
}

// Address snapshots the effective (selected-or-typed) address fields.
func (s *State) Address() Address {
	return Address{
		FullName:   strings.TrimSpace(s.fullName()),
		Phone:      strings.TrimSpace(s.phone()),
		CEP:        strings.TrimSpace(s.cep()),
		Street:     strings.TrimSpace(s.street()),
		Number:     strings.TrimSpace(s.number()),
		District:   strings.TrimSpace(s.district()),
		Complement: strings.TrimSpace(s.complement()),
	}
}
