package core

import "context"

// Recognition 是标签识别（OCR）服务的输出，引擎只消费不生产。
type Recognition struct {
	Text         string   `json:"text" yaml:"text"`
	Confidence   float64  `json:"confidence" yaml:"confidence"`
	CandidateIDs []string `json:"candidate_ids" yaml:"candidate_ids"`
}

// Recognizer 是外部标签识别服务（可能是真实模型，也可能是 mock）。
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (Recognition, error)
}

// RecognizerFunc 让普通函数实现 Recognizer。
type RecognizerFunc func(ctx context.Context, image []byte) (Recognition, error)

func (f RecognizerFunc) Recognize(ctx context.Context, image []byte) (Recognition, error) {
	return f(ctx, image)
}
