package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler         authHandler
	basicDetailsHandler basicDetailsHandler
	tagHandler          tagHandler
	blogPostHandler     blogPostHandler
	projectHandler      projectHandler
	experienceHandler   experienceHandler
	contactHandler      contactHandler
	rideHandler         rideHandler
	riderHandler        riderHandler
	announcementHandler announcementHandler
	newsletterHandler   newsletterHandler
	emailHandler        emailHandler
	uploadHandler       uploadHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error    string            `json:"error" example:"Internal Server Error"`
	Status   string            `json:"status" example:"error"`
	Field    string            `json:"field,omitempty" example:"title"`
	Fields   map[string]string `json:"fields,omitempty"`
	Details  string            `json:"details,omitempty" example:"Additional error details"`
	Cause    string            `json:"cause,omitempty" example:"Underlying error cause"`
	Redirect string            `json:"redirect,omitempty" example:"/auth/login"`
}

// StatusResponse is the body of a successful write.
type StatusResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"ride created successfully"`
}
