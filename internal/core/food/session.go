package food

import (
	"context"
	"sync"
	"time"

	"foodsnap-api/internal/core/ai/image"
	"foodsnap-api/internal/pkg/common"
)

// State 分析流程狀態
type State int

const (
	StateIdle State = iota
	StateImageSelected
	StateAnalyzing
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateImageSelected:
		return "image_selected"
	case StateAnalyzing:
		return "analyzing"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// FoodAnalyzer Session 需要的分析能力
type FoodAnalyzer interface {
	AnalyzeFood(ctx context.Context, img []byte, mimeType string) (*common.FoodAnalysis, error)
}

// Snapshot Session 目前狀態的唯讀副本
type Snapshot struct {
	State     string               `json:"state"`
	HasImage  bool                 `json:"hasImage"`
	MimeType  string               `json:"mimeType,omitempty"`
	Analyzing bool                 `json:"analyzing"`
	Result    *common.FoodAnalysis `json:"result,omitempty"`
	Error     string               `json:"error,omitempty"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// Session 單一使用者的分析狀態，同時最多一個分析進行中
type Session struct {
	mu         sync.Mutex
	state      State
	image      *image.Image
	result     *common.FoodAnalysis
	errMessage string
	inFlight   bool
	generation uint64
	updatedAt  time.Time
}

// NewSession 創建 Idle 狀態的 Session
func NewSession() *Session {
	return &Session{state: StateIdle, updatedAt: time.Now()}
}

// SelectImage 任何狀態下選擇新圖片都回到 ImageSelected，並丟棄先前結果與錯誤
func (s *Session) SelectImage(img *image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.image = img
	s.result = nil
	s.errMessage = ""
	s.state = StateImageSelected
	s.generation++
	s.updatedAt = time.Now()
}

// Analyze 以目前圖片執行分析；結束時無論成功與否都清除進行中旗標
func (s *Session) Analyze(ctx context.Context, analyzer FoodAnalyzer) (*common.FoodAnalysis, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, common.ErrAnalysisInFlight
	}
	if s.image == nil {
		s.errMessage = common.NoImageMessage
		s.state = StateFailed
		s.updatedAt = time.Now()
		s.mu.Unlock()
		return nil, common.ErrNoImage
	}
	img := s.image
	generation := s.generation
	s.inFlight = true
	s.state = StateAnalyzing
	s.result = nil
	s.errMessage = ""
	s.updatedAt = time.Now()
	s.mu.Unlock()

	var (
		result *common.FoodAnalysis
		err    error
	)
	defer func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.inFlight = false
		// 分析期間已換圖或登出，結果作廢
		if s.generation != generation {
			return
		}
		if err != nil {
			s.state = StateFailed
			s.errMessage = common.UserMessage(err)
		} else {
			s.state = StateSucceeded
			s.result = result
		}
		s.updatedAt = time.Now()
	}()

	result, err = analyzer.AnalyzeFood(ctx, img.Data, img.MimeType)
	return result, err
}

// Reset 登出時回到 Idle
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.image = nil
	s.result = nil
	s.errMessage = ""
	s.state = StateIdle
	s.generation++
	s.updatedAt = time.Now()
}

// Image 目前選擇的圖片
func (s *Session) Image() *image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image
}

// Snapshot 取得目前狀態
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:     s.state.String(),
		HasImage:  s.image != nil,
		Analyzing: s.inFlight,
		Result:    s.result,
		Error:     s.errMessage,
		UpdatedAt: s.updatedAt,
	}
	if s.image != nil {
		snap.MimeType = s.image.MimeType
	}
	return snap
}

// SessionStore 依使用者保存 Session（僅存在記憶體）
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore 創建 SessionStore
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Get 取得或建立使用者的 Session
func (st *SessionStore) Get(userID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[userID]
	if !ok {
		s = NewSession()
		st.sessions[userID] = s
	}
	return s
}

// Reset 重置並移除使用者的 Session
func (st *SessionStore) Reset(userID string) {
	st.mu.Lock()
	s, ok := st.sessions[userID]
	delete(st.sessions, userID)
	st.mu.Unlock()

	if ok {
		s.Reset()
	}
}

// Len 目前保存的 Session 數量
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
