package model

import "fmt"

// OrderStatus is the lifecycle state of an order record.
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderConfirmed OrderStatus = "Confirmed"
	OrderRejected  OrderStatus = "Rejected"
	OrderPaid      OrderStatus = "Paid"
)

// Terminal reports whether no further lifecycle transition is permitted.
func (s OrderStatus) Terminal() bool {
	return s == OrderRejected || s == OrderPaid
}

// Action is a user-triggered mutation on a single record.
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionReject  Action = "reject"
	ActionPay     Action = "pay"
	ActionDelete  Action = "delete"
)

// ParseAction validates an action name taken from a request path.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionConfirm, ActionReject, ActionPay, ActionDelete:
		return Action(s), true
	}
	return "", false
}

// Lifecycle reports whether the action changes a record's lifecycle state.
// Lifecycle actions force a refetch from the source of truth; delete is a
// pure removal and may be applied optimistically.
func (a Action) Lifecycle() bool {
	return a == ActionConfirm || a == ActionReject || a == ActionPay
}

// TransitionError is returned when an action is not legal from the record's
// current lifecycle state.
type TransitionError struct {
	From   OrderStatus
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s an order in state %q", e.Action, e.From)
}

// transitions holds the legal state machine:
// Pending -> {Confirmed, Rejected}; Confirmed -> {Paid}.
var transitions = map[OrderStatus]map[Action]OrderStatus{
	OrderPending: {
		ActionConfirm: OrderConfirmed,
		ActionReject:  OrderRejected,
	},
	OrderConfirmed: {
		ActionPay: OrderPaid,
	},
}

// Next returns the state the order moves to under the given action.
// Delete is permitted from any state since it removes the record rather
// than transitioning it. Every other illegal move, including any lifecycle
// action on a terminal state, yields a TransitionError.
func (s OrderStatus) Next(a Action) (OrderStatus, error) {
	if a == ActionDelete {
		return s, nil
	}
	if next, ok := transitions[s][a]; ok {
		return next, nil
	}
	return s, &TransitionError{From: s, Action: a}
}

// Order represents one purchase order as returned by the backend. The
// backend carries an explicit order type discriminant; the gateway does not
// reconstruct it heuristically.
type Order struct {
	ID          uint        `json:"orderID"`
	ProductName string      `json:"productName"`
	Price       float64     `json:"orderPrice"`
	Quantity    int         `json:"orderQuantity"`
	Description string      `json:"orderDescription"`
	OrderedDate string      `json:"orderedDate"`
	Category    string      `json:"productCategory"`
	OrderType   string      `json:"orderType"`
	Status      OrderStatus `json:"orderStatus"`
	Deleted     bool        `json:"deleteStatus"`
	Owner       Owner       `json:"user"`
}

func (o Order) RecordID() uint        { return o.ID }
func (o Order) DisplayName() string   { return o.ProductName }
func (o Order) CategoryLabel() string { return o.Category }
func (o Order) BasePrice() float64    { return o.Price }
func (o Order) IsDeleted() bool       { return o.Deleted }
