package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsvc "github.com/ivankudzin/naranja/internal/services/auth"
	channelssvc "github.com/ivankudzin/naranja/internal/services/channels"
	feedsvc "github.com/ivankudzin/naranja/internal/services/feed"
	limitssvc "github.com/ivankudzin/naranja/internal/services/limits"
	matchingsvc "github.com/ivankudzin/naranja/internal/services/matching"
	presencesvc "github.com/ivankudzin/naranja/internal/services/presence"
	profilesvc "github.com/ivankudzin/naranja/internal/services/profiles"
	ratesvc "github.com/ivankudzin/naranja/internal/services/rate"
	"github.com/ivankudzin/naranja/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService     *authsvc.Service
	ChannelService  *channelssvc.Service
	FeedService     *feedsvc.Service
	LimitService    *limitssvc.Service
	MatchingService *matchingsvc.Service
	PresenceService *presencesvc.Service
	ProfileService  *profilesvc.Service
	RateLimiter     *ratesvc.Limiter
	Logger          *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	feedHandler := handlers.NewFeedHandler(deps.FeedService)
	likesHandler := handlers.NewLikesHandler(deps.MatchingService)
	quotaHandler := handlers.NewQuotaHandler(deps.LimitService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchingService)
	channelsHandler := handlers.NewChannelsHandler(deps.ChannelService, deps.MatchingService, deps.Logger)
	presenceHandler := handlers.NewPresenceHandler(deps.PresenceService)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	likesRate := RateLimitMiddleware(deps.RateLimiter, "likes", deps.Logger)
	messagesRate := RateLimitMiddleware(deps.RateLimiter, "messages", deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1", func(r chi.Router) {
		r.Use(authMW)

		r.Post("/auth/logout", authHandler.Logout)

		r.Get("/profile", profileHandler.Get)
		r.Put("/profile", profileHandler.Save)

		r.Get("/feed", feedHandler.Handle)
		r.Get("/feed/{user_id}", feedHandler.Candidate)

		r.With(likesRate).Post("/likes", likesHandler.Like)
		r.With(likesRate).Post("/passes", likesHandler.Pass)
		r.Get("/quota", quotaHandler.Handle)

		r.Get("/matches", matchesHandler.List)
		r.Post("/unmatch", matchesHandler.Unmatch)

		r.Post("/channels/direct", channelsHandler.Direct)
		r.Post("/channels/group", channelsHandler.CreateGroup)
		r.Post("/channels/{id}/invitations", channelsHandler.Invite)
		r.Get("/channels/{id}/members", channelsHandler.Members)
		r.Get("/invitations", channelsHandler.Invitations)
		r.Post("/invitations/{id}", channelsHandler.AnswerInvitation)
		r.Get("/channels", channelsHandler.List)
		r.Get("/channels/{id}", channelsHandler.Get)
		r.Get("/channels/{id}/messages", channelsHandler.ListMessages)
		r.With(messagesRate).Post("/channels/{id}/messages", channelsHandler.SendMessage)

		r.Post("/presence", presenceHandler.Touch)
		r.Get("/presence", presenceHandler.Online)
	})
}
