package topology

import "errors"

var (
	// ErrHouseNotFound возвращается, когда дом не найден
	ErrHouseNotFound = errors.New("topology.repository: house not found")

	// ErrRoomNotFound возвращается, когда номер не найден
	ErrRoomNotFound = errors.New("topology.repository: room not found")

	// ErrUnitNotFound возвращается, когда юнит не найден
	ErrUnitNotFound = errors.New("topology.repository: room unit not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("topology.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("topology.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("topology.repository: failed to scan row")
)
