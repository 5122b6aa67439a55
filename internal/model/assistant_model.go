package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// ChatConversation groups ordered assistant messages. Deleting a
// conversation cascades to its messages.
type ChatConversation struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string    `gorm:"type:varchar(255);not null;default:'Cuộc trò chuyện mới'" json:"title"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ChatConversation) TableName() string {
	return "chat_conversations"
}

type ChatMessage struct {
	Id             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationId uuid.UUID         `gorm:"type:uuid;not null;index" json:"conversation_id"`
	Conversation   *ChatConversation `gorm:"foreignKey:ConversationId;constraint:OnDelete:CASCADE" json:"-"`
	Role           string            `gorm:"type:varchar(20);not null" json:"role"` // user | assistant
	Content        string            `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

type KbCategory struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (KbCategory) TableName() string {
	return "kb_categories"
}

// KbArticle holds a unit-normalized embedding so cosine search reduces to
// inner product ordering.
type KbArticle struct {
	Id           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryId   *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Title        string          `gorm:"type:varchar(500);not null" json:"title"`
	Content      string          `gorm:"type:text;not null" json:"content"`
	Embedding    pgvector.Vector `gorm:"type:vector(768)" json:"-"`
	SourceFileId *uuid.UUID      `gorm:"type:uuid;index" json:"source_file_id,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (KbArticle) TableName() string {
	return "kb_articles"
}

type KbFaq struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryId *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Question   string     `gorm:"type:text;not null" json:"question"`
	Answer     string     `gorm:"type:text;not null" json:"answer"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (KbFaq) TableName() string {
	return "kb_faqs"
}

type TrainingFile struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FileName   string     `gorm:"type:varchar(500);not null" json:"file_name"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	Status     string     `gorm:"type:varchar(50);not null;default:'pending'" json:"status"` // pending | processing | completed | failed
	UploadedBy *uuid.UUID `gorm:"type:uuid" json:"uploaded_by,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TrainingFile) TableName() string {
	return "training_files"
}
