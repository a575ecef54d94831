package wizard

import (
	"sync"

	"loan-journey-workers/internal/journey"
)

// Navigator is asked to show the screen for a route.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

var stepRoutes = map[journey.Step]string{
	journey.StepWelcome:          "/",
	journey.StepPreQualification: "/pre-qualification",
	journey.StepPanVerification:  "/pan-verification",
	journey.StepOfferMatching:    "/offer-matching",
	journey.StepOffers:           "/offers",
	journey.StepKYCProcess:       "/kyc-process",
	journey.StepLenderProcess:    "/lender-process",
	journey.StepLoanAgreement:    "/loan-agreement",
	journey.StepESign:            "/loan-agreement",
	journey.StepNACH:             "/loan-agreement",
	journey.StepComplete:         "/loan-disbursement",
}

// Route returns the screen route for a step; e-sign and NACH share the
// agreement screen.
func Route(s journey.Step) string {
	return stepRoutes[s]
}

// RouteRecorder remembers navigation requests so a job can report them.
type RouteRecorder struct {
	mu     sync.Mutex
	routes []string
}

func (r *RouteRecorder) Navigate(route string) {
	r.mu.Lock()
	r.routes = append(r.routes, route)
	r.mu.Unlock()
}

// Last returns the most recent route, or "".
func (r *RouteRecorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.routes) == 0 {
		return ""
	}
	return r.routes[len(r.routes)-1]
}

func (r *RouteRecorder) Routes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.routes...)
}
