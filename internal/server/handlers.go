package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RasheedLewis/VibeCraft-sub006/internal/domain/boundary"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/domain/motion"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/types"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/usecase"
)

type planRequest struct {
	Analysis       types.TrackAnalysis   `json:"analysis"`
	NumClips       int                   `json:"num_clips,omitempty"`
	SelectionStart *float64              `json:"selection_start,omitempty"`
	SelectionEnd   *float64              `json:"selection_end,omitempty"`
	MinDurationSec float64               `json:"min_duration_s,omitempty"`
	MaxDurationSec float64               `json:"max_duration_s,omitempty"`
	ToleranceSec   float64               `json:"tolerance_s,omitempty"`
	Effects        []types.EffectRequest `json:"effects,omitempty"`
}

type planResponse struct {
	RequestID string                `json:"request_id"`
	Plan      types.TimingPlan      `json:"plan"`
	Report    types.AlignmentReport `json:"report"`
	Effects   []types.EffectRender  `json:"effects,omitempty"`
}

func (s *Server) handlePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	min := req.MinDurationSec
	if min == 0 {
		min = s.presets.Timing.MinDurationSec
	}
	max := req.MaxDurationSec
	if max == 0 {
		max = s.presets.Timing.MaxDurationSec
	}
	tol := req.ToleranceSec
	if tol == 0 {
		tol = s.presets.Timing.ToleranceSec
	}
	for i := range req.Effects {
		req.Effects[i].Params = s.presets.EffectParams(req.Effects[i].FilterType, req.Effects[i].Params)
	}

	res, err := s.uc.Plan(usecase.PlanInput{
		Analysis: req.Analysis,
		Options: boundary.Options{
			MinDuration:    min,
			MaxDuration:    max,
			NumClips:       req.NumClips,
			SelectionStart: req.SelectionStart,
			SelectionEnd:   req.SelectionEnd,
		},
		ToleranceSec: tol,
		Effects:      req.Effects,
	})
	if err != nil {
		s.badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, planResponse{
		RequestID: requestID(c),
		Plan:      res.Plan,
		Report:    res.Report,
		Effects:   res.Effects,
	})
}

type verifyRequest struct {
	Boundaries   []types.ClipBoundary `json:"boundaries"`
	BeatTimes    []float64            `json:"beat_times"`
	ToleranceSec float64              `json:"tolerance_s,omitempty"`
}

type verifyResponse struct {
	RequestID string                `json:"request_id"`
	Report    types.AlignmentReport `json:"report"`
}

func (s *Server) handleVerify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	tol := req.ToleranceSec
	if tol == 0 {
		tol = s.presets.Timing.ToleranceSec
	}
	report := boundary.Verify(req.Boundaries, req.BeatTimes, tol)
	c.JSON(http.StatusOK, verifyResponse{RequestID: requestID(c), Report: report})
}

type effectsResponse struct {
	RequestID string             `json:"request_id"`
	Effect    types.EffectRender `json:"effect"`
}

func (s *Server) handleEffects(c *gin.Context) {
	var req types.EffectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	req.Params = s.presets.EffectParams(req.FilterType, req.Params)
	renders, err := s.uc.RenderEffects([]types.EffectRequest{req}, nil)
	if err != nil {
		s.badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, effectsResponse{RequestID: requestID(c), Effect: renders[0]})
}

type motionRequest struct {
	types.SceneContext
	Prompt string `json:"prompt,omitempty"`
	Target string `json:"target,omitempty"`
}

type motionResponse struct {
	RequestID      string `json:"request_id"`
	MotionCategory string `json:"motion_category"`
	Prompt         string `json:"prompt,omitempty"`
}

func (s *Server) handleMotion(c *gin.Context) {
	var req motionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	resp := motionResponse{
		RequestID:      requestID(c),
		MotionCategory: motion.Select(req.SceneContext),
	}
	if req.Prompt != "" {
		resp.Prompt = motion.AdaptPrompt(req.Prompt, req.Target, req.BPM)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"request_id": requestID(c),
		"error":      err.Error(),
	})
}
