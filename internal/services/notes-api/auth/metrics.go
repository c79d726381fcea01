package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_login_total",
		Help: "Login attempts by result.",
	}, []string{"result"})
	refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_refresh_total",
		Help: "Refresh attempts by result.",
	}, []string{"result"})
	registerTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_register_total",
		Help: "Registrations by result.",
	}, []string{"result"})
)
