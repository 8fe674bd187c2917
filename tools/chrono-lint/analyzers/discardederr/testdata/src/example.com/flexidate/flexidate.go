package flexidate

type Date struct{ year int }

type TimeSpan struct{ Years int }

func ParseDate(text string) (Date, error) { return Date{}, nil }

func NewDate(year int) (Date, error) { return Date{year: year}, nil }

func Years(n int) TimeSpan { return TimeSpan{Years: n} }

func (d Date) AddSpan(s TimeSpan) Date { return d }
