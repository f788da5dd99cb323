package domain

// EventName identifies the kind of a tracked analytics event.
type EventName string

const (
	EventSessionStart     EventName = "session_start"
	EventAddToCart        EventName = "add_to_cart"
	EventCheckoutStart    EventName = "checkout_start"
	EventCheckoutComplete EventName = "checkout_complete"
	EventProductView      EventName = "product_view"
	EventSearch           EventName = "search"
)

// LiveEvent is one record of the recent events feed with lower-cased keys.
// Fields beyond the accessors below are kept verbatim in the Record.
type LiveEvent struct {
	Record
}

func (e LiveEvent) TenantID() string       { return e.Text("tenant_id") }
func (e LiveEvent) Name() EventName        { return EventName(e.Text("event_name")) }
func (e LiveEvent) SessionID() string      { return e.Text("session_id") }
func (e LiveEvent) ProductName() string    { return e.Text("product_name") }
func (e LiveEvent) DeviceType() string     { return e.Text("device_type") }
func (e LiveEvent) PageURL() string        { return e.Text("page_url") }
func (e LiveEvent) Platform() string       { return e.Text("platform") }
func (e LiveEvent) EventTimestamp() string { return e.Text("event_timestamp") }

func (e LiveEvent) CartValue() (float64, bool) {
	v, ok := e.Get("cart_value")
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}
