package entity

import "encoding/json"

// Order statuses. An order starts IN_PROCESS and may move to exactly one of
// the settled states; settled states are terminal.
const (
	StatusInProcess = "IN_PROCESS"
	StatusPaid      = "PAID"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
)

type Order struct {
	ID              string    `json:"id"`
	Tests           []TestRef `json:"tests"`
	TotalAmount     float64   `json:"totalAmount"`
	Date            string    `json:"date"`
	Status          string    `json:"status"`
	AppointmentDate string    `json:"appointmentDate,omitempty"`
	AppointmentTime string    `json:"appointmentTime,omitempty"`
}

// Settled reports whether the order reached a terminal status.
func (o *Order) Settled() bool {
	return o.Status == StatusPaid || o.Status == StatusFailed || o.Status == StatusCancelled
}

// TestRef is one line item of an order. The API accepts both bare test names
// ("CBC") and full objects ({"id":1,"name":"CBC","price":500}) in the tests
// array, so a ref round-trips to whichever shape it carries data for.
type TestRef struct {
	ID    int     `json:"id,omitempty"`
	Name  string  `json:"name"`
	Price float64 `json:"price,omitempty"`
}

func (t *TestRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*t = TestRef{Name: name}
		return nil
	}
	type plain TestRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = TestRef(p)
	return nil
}

func (t TestRef) MarshalJSON() ([]byte, error) {
	if t.ID == 0 && t.Price == 0 {
		return json.Marshal(t.Name)
	}
	type plain TestRef
	return json.Marshal(plain(t))
}
