package order

type Status string

// Orders are created as new. Later states are set by shop staff outside this service.
const StatusNew Status = "new"
