package b

import "example.com/flexidate"

func bad() {
	d, _ := flexidate.ParseDate("44 BC") // want "error from flexidate.ParseDate is discarded"
	_ = d

	var e, _ = flexidate.NewDate(-44) // want "error from flexidate.NewDate is discarded"
	_ = e

	flexidate.ParseDate("41? BC") // want "result of flexidate.ParseDate is ignored"
}

func good() error {
	d, err := flexidate.ParseDate("44 BC")
	if err != nil {
		return err
	}
	_ = d.AddSpan(flexidate.Years(1))

	s := flexidate.Years(3)
	_ = s
	return nil
}
