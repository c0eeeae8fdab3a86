package v1

import "github.com/shenikar/emergency_aid_connect/internal/models"

// DTOToUserProfile преобразует запрос регистрации в профиль пользователя
func DTOToUserProfile(dto RegisterRequest) *models.User {
	profile := &models.User{
		Name:      dto.Name,
		Email:     dto.Email,
		Role:      models.Role(dto.Role),
		NIC:       dto.NIC,
		Address:   dto.Address,
		ContactNo: dto.ContactNo,
	}
	if dto.Location != nil {
		profile.Location = &models.GeoPoint{Latitude: *dto.Location.Latitude, Longitude: *dto.Location.Longitude}
	}
	return profile
}

func ModelToUserResponse(model *models.User) *UserResponse {
	resp := &UserResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Role:      string(model.Role),
		NIC:       model.NIC,
		Address:   model.Address,
		ContactNo: model.ContactNo,
		IsActive:  model.IsActive,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if model.Location != nil {
		lat, lon := model.Location.Latitude, model.Location.Longitude
		resp.Location = &GeoPointDTO{Latitude: &lat, Longitude: &lon}
	}
	return resp
}

func ModelsToUserResponses(users []*models.User) []*UserResponse {
	responses := make([]*UserResponse, len(users))
	for i, user := range users {
		responses[i] = ModelToUserResponse(user)
	}
	return responses
}

// DTOToUserPatch преобразует запрос администратора в изменение учетной записи
func DTOToUserPatch(dto UpdateUserRequest) models.UserPatch {
	patch := models.UserPatch{IsActive: dto.IsActive}
	if dto.Role != nil {
		role := models.Role(*dto.Role)
		patch.Role = &role
	}
	return patch
}

// DTOToDisasterModel преобразует DTO создания в доменную модель
func DTOToDisasterModel(dto CreateDisasterRequest) *models.DisasterReport {
	return &models.DisasterReport{
		Location: models.Location{
			Latitude:  *dto.Location.Latitude,
			Longitude: *dto.Location.Longitude,
			Address:   dto.Location.Address,
		},
		Type:           models.DisasterType(dto.Type),
		Name:           dto.Name,
		Severity:       models.Severity(dto.Severity),
		Details:        dto.Details,
		AffectedCount:  dto.AffectedCount,
		ContactNo:      dto.ContactNo,
		Images:         dto.Images,
		AudioRecording: dto.AudioRecording,
	}
}

// ModelToDisasterResponse преобразует доменную модель в DTO для ответа
func ModelToDisasterResponse(model *models.DisasterReport) *DisasterResponse {
	lat, lon := model.Location.Latitude, model.Location.Longitude
	return &DisasterResponse{
		ID: model.ID,
		Location: LocationDTO{
			Latitude:  &lat,
			Longitude: &lon,
			Address:   model.Location.Address,
		},
		Timestamp:      model.Timestamp,
		Type:           string(model.Type),
		Name:           model.Name,
		Severity:       string(model.Severity),
		Details:        model.Details,
		AffectedCount:  model.AffectedCount,
		ContactNo:      model.ContactNo,
		Images:         model.Images,
		AudioRecording: model.AudioRecording,
		ReportedBy:     model.ReportedBy,
		Status:         string(model.Status),
		AssignedTo:     model.AssignedTo,
		Notes:          model.Notes,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// ModelsToDisasterResponses преобразует слайс моделей в слайс DTO
func ModelsToDisasterResponses(disasters []*models.DisasterReport) []*DisasterResponse {
	responses := make([]*DisasterResponse, len(disasters))
	for i, disaster := range disasters {
		responses[i] = ModelToDisasterResponse(disaster)
	}
	return responses
}

func DTOToStatusUpdate(dto UpdateStatusRequest) models.StatusUpdate {
	return models.StatusUpdate{
		Status:     models.Status(dto.Status),
		Notes:      dto.Notes,
		AssignedTo: dto.AssignedTo,
	}
}

func ModelToStatsResponse(stats *models.Stats) *StatsResponse {
	resp := &StatsResponse{
		PendingCount:        stats.PendingCount,
		InProgressCount:     stats.InProgressCount,
		ResolvedCount:       stats.ResolvedCount,
		ActiveResponders:    stats.ActiveResponders,
		TodayReports:        stats.TodayReports,
		DisastersByType:     make(map[string]int, len(stats.DisastersByType)),
		DisastersBySeverity: make(map[string]int, len(stats.DisastersBySeverity)),
		DisastersByStatus:   make(map[string]int, len(stats.DisastersByStatus)),
		DisastersTrend:      make([]TrendPointDTO, len(stats.DisastersTrend)),
	}
	for k, v := range stats.DisastersByType {
		resp.DisastersByType[string(k)] = v
	}
	for k, v := range stats.DisastersBySeverity {
		resp.DisastersBySeverity[string(k)] = v
	}
	for k, v := range stats.DisastersByStatus {
		resp.DisastersByStatus[string(k)] = v
	}
	for i, p := range stats.DisastersTrend {
		resp.DisastersTrend[i] = TrendPointDTO{Date: p.Date, Count: p.Count}
	}
	return resp
}
