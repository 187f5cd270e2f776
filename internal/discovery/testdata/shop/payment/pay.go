package payment

import "errors"

// @step `^I pay {float} with {}$`
func Pay(amount float64, method string) error {
	if amount <= 0 {
		return errors.New("nothing to pay")
	}
	return nil
}

// @step `^a code of \d{2,4} digits$`
func Code() {}
