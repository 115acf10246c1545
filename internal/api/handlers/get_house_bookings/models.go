package get_house_bookings

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-AllotmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	houseID int64,
	startDateStr string,
	endDateStr string,
	statusStr string,
	rootsOnlyStr string,
) (*models.ListHouseBookingsRequest, error) {
	req := &models.ListHouseBookingsRequest{HouseID: houseID}

	if startDateStr != "" {
		startDate, err := types.ParseDate(startDateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if endDateStr != "" {
		endDate, err := types.ParseDate(endDateStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if rootsOnlyStr != "" {
		rootsOnly, err := strconv.ParseBool(rootsOnlyStr)
		if err != nil {
			return nil, fmt.Errorf("invalid rootsOnly value: %w", err)
		}
		req.RootsOnly = rootsOnly
	}

	return req, nil
}
