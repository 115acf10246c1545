package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DateLayout формат даты на границе сервиса (ISO-8601)
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// ErrInvalidDate возвращается при некорректной строке даты
var ErrInvalidDate = errors.New("invalid date string format")

// Date календарная дата без времени суток.
// Хранится как количество дней от 1970-01-01 (UTC), поэтому сравнима через ==,
// упорядочена и пригодна как ключ map.
type Date int64

// NewDate создает дату из года, месяца и дня
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf отбрасывает время суток и часовой пояс у time.Time
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	unix := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
	days := unix / secondsPerDay
	if unix%secondsPerDay < 0 {
		days--
	}
	return Date(days)
}

// ParseDate парсит строку формата YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// MustParseDate как ParseDate, но паникует при ошибке (для тестов и констант)
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Time возвращает полночь этой даты в UTC
func (d Date) Time() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

// String возвращает дату в формате YYYY-MM-DD
func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// AddDays сдвигает дату на n дней
func (d Date) AddDays(n int) Date {
	return d + Date(n)
}

// Before возвращает true, если d раньше other
func (d Date) Before(other Date) bool {
	return d < other
}

// After возвращает true, если d позже other
func (d Date) After(other Date) bool {
	return d > other
}

// DaysUntil количество дней от d до other (отрицательное, если other раньше)
func (d Date) DaysUntil(other Date) int {
	return int(other - d)
}

// MinDate возвращает меньшую из двух дат
func MinDate(a, b Date) Date {
	if a < b {
		return a
	}
	return b
}

// MaxDate возвращает большую из двух дат
func MaxDate(a, b Date) Date {
	if a > b {
		return a
	}
	return b
}

// Value реализует driver.Valuer
func (d Date) Value() (driver.Value, error) {
	return d.Time(), nil
}

// Scan реализует sql.Scanner (колонки типа DATE)
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case nil:
		return fmt.Errorf("%w: NULL", ErrInvalidDate)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, src)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON сериализует дату как "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON разбирает дату из "YYYY-MM-DD"
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
