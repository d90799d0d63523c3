package server

import "net/http"

// Handler returns the full route table wrapped in request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /logout", s.handleLogout)

	mux.Handle("GET /api/me", s.requireSession(s.handleMe))
	mux.Handle("POST /ocr/plate", s.requireSession(s.handleOCR(plateKind, false)))
	mux.Handle("POST /ocr/odometer", s.requireSession(s.handleOCR(odometerKind, false)))
	mux.Handle("GET /api/vehicles", s.requireSession(s.handleListVehicles))
	mux.Handle("POST /api/vehicles", s.requireSession(s.handleAddVehicle))
	mux.Handle("PUT /api/vehicles/{index}", s.requireSession(s.handleUpdateVehicle))
	mux.Handle("DELETE /api/vehicles/{index}", s.requireSession(s.handleRemoveVehicle))
	mux.Handle("GET /api/vehicles/export", s.requireSession(s.handleExport))

	// Paths used by the first version of the capture page
	mux.Handle("POST /ocr/matricula", s.requireSession(s.handleOCR(plateKind, true)))
	mux.Handle("POST /ocr/cuentakilometros", s.requireSession(s.handleOCR(odometerKind, true)))
	mux.Handle("GET /vehiculos", s.requireSession(s.handleListVehicles))
	mux.Handle("POST /agregar_vehiculo", s.requireSession(s.handleAddVehicle))
	mux.Handle("POST /editar_vehiculo", s.requireSession(s.handleUpdateVehicle))
	mux.Handle("POST /eliminar_vehiculo", s.requireSession(s.handleRemoveVehicle))
	mux.Handle("GET /descargar_excel", s.requireSession(s.handleExport))

	return s.logRequests(s.limitBody(mux))
}
