package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/example/astro-shop-service/internal/usecase"
	"github.com/gorilla/mux"
)

// Server — read-only API для staff: просмотр заказа и каталога.
type Server struct {
	Router *mux.Router
	UCGet  usecase.GetOrder
	UCList usecase.ListProducts
}

func NewServer(ucGet usecase.GetOrder, ucList usecase.ListProducts) *Server {
	s := &Server{Router: mux.NewRouter(), UCGet: ucGet, UCList: ucList}
	s.Router.HandleFunc("/api/order/{id}", s.handleGetOrder).Methods(http.MethodGet)
	s.Router.HandleFunc("/api/products", s.handleListProducts).Methods(http.MethodGet)
	return s
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	o, ok := s.UCGet.Execute(id)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(o)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.UCList.Execute())
}
