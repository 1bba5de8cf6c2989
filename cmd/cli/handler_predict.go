package main

import "net/http"

// predictHandler classifies the latest reading and stores the result
func (rm *RouteManager) predictHandler(w http.ResponseWriter, r *http.Request) error {
	result, err := rm.service.Predict(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, result)
	return nil
}

func (rm *RouteManager) predictionHistoryHandler(w http.ResponseWriter, r *http.Request) error {
	history, err := rm.service.PredictionHistory(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, history)
	return nil
}
