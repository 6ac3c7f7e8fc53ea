package dto

type CreateVehicleRequest struct {
	Brand       string `json:"brand" binding:"required"`
	Model       string `json:"model" binding:"required"`
	PlateNumber string `json:"plate_number"`
}

type MatchVehiclesRequest struct {
	ServiceName string `json:"service_name"`
}
