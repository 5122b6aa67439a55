package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedProvider returns the same vector for every input, or an error.
type fixedProvider struct {
	vector []float32
	err    error
}

func (p *fixedProvider) Generate(string) ([]float32, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.vector, nil
}

func newAssistantFixture(t *testing.T, provider *fixedProvider) (IAssistantService, *gochannel.GoChannel) {
	t.Helper()
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := NewAssistantService(factory, provider, pubSub, "training_files.embed", noopLogger{})
	return svc, pubSub
}

func TestAskAnswersFromFaq(t *testing.T) {
	svc, _ := newAssistantFixture(t, &fixedProvider{err: errors.New("should not be called")})
	ctx := context.Background()
	userId := uuid.New()

	_, err := svc.CreateFaq(ctx, &dto.CreateFaqRequest{
		Question: "Làm sao đổi mật khẩu",
		Answer:   "Vào phần cài đặt tài khoản và chọn Đổi mật khẩu.",
	})
	require.NoError(t, err)

	resp, err := svc.Ask(ctx, userId, &dto.AskRequest{
		Question: "Cho mình hỏi làm sao đổi mật khẩu với ạ",
	})
	require.NoError(t, err)
	assert.Equal(t, "faq", resp.Source)
	assert.Equal(t, "Vào phần cài đặt tài khoản và chọn Đổi mật khẩu.", resp.Answer)
	assert.NotEqual(t, uuid.Nil, resp.ConversationId)
}

func TestAskFallsBackWhenNothingMatches(t *testing.T) {
	svc, _ := newAssistantFixture(t, &fixedProvider{err: errors.New("embedder offline")})
	ctx := context.Background()

	resp, err := svc.Ask(ctx, uuid.New(), &dto.AskRequest{Question: "Câu hỏi không ai biết"})
	require.NoError(t, err)
	assert.Equal(t, "none", resp.Source)
	assert.NotEmpty(t, resp.Answer)
}

func TestAskCreatesConversationWithDerivedTitle(t *testing.T) {
	svc, _ := newAssistantFixture(t, &fixedProvider{err: errors.New("offline")})
	ctx := context.Background()
	userId := uuid.New()

	resp, err := svc.Ask(ctx, userId, &dto.AskRequest{
		Question: "một hai ba bốn năm sáu bảy tám chín mười",
	})
	require.NoError(t, err)

	conversation, messages, err := svc.GetConversation(ctx, userId, resp.ConversationId)
	require.NoError(t, err)
	assert.Equal(t, "một hai ba bốn năm sáu bảy tám", conversation.Title)

	// Question and answer are both persisted, in order.
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "assistant", messages[1].Role)
}

func TestAskAppendsToExistingConversation(t *testing.T) {
	svc, _ := newAssistantFixture(t, &fixedProvider{err: errors.New("offline")})
	ctx := context.Background()
	userId := uuid.New()

	first, err := svc.Ask(ctx, userId, &dto.AskRequest{Question: "câu đầu tiên"})
	require.NoError(t, err)

	second, err := svc.Ask(ctx, userId, &dto.AskRequest{
		ConversationId: &first.ConversationId,
		Question:       "câu tiếp theo",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ConversationId, second.ConversationId)

	_, messages, err := svc.GetConversation(ctx, userId, first.ConversationId)
	require.NoError(t, err)
	assert.Len(t, messages, 4)
}

func TestConversationOwnership(t *testing.T) {
	svc, _ := newAssistantFixture(t, &fixedProvider{err: errors.New("offline")})
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	resp, err := svc.Ask(ctx, owner, &dto.AskRequest{Question: "của riêng tôi"})
	require.NoError(t, err)

	_, _, err = svc.GetConversation(ctx, stranger, resp.ConversationId)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Equal(t, "Not your conversation", apperr.Message(err))

	_, _, err = svc.GetConversation(ctx, owner, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// A stranger asking into someone else's thread is refused too.
	_, err = svc.Ask(ctx, stranger, &dto.AskRequest{
		ConversationId: &resp.ConversationId,
		Question:       "xen vào",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestUploadTrainingFileQueuesEmbedJob(t *testing.T) {
	svc, pubSub := newAssistantFixture(t, &fixedProvider{vector: []float32{0.1, 0.2}})
	ctx := context.Background()

	messages, err := pubSub.Subscribe(ctx, "training_files.embed")
	require.NoError(t, err)

	admin := uuid.New()
	file, err := svc.UploadTrainingFile(ctx, admin, &dto.UploadTrainingFileRequest{
		FileName: "huong-dan.txt",
		Content:  "Nội dung tài liệu huấn luyện.",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", file.Status)
	require.NotNil(t, file.UploadedBy)
	assert.Equal(t, admin, *file.UploadedBy)

	select {
	case msg := <-messages:
		var payload dto.EmbedTrainingFileMessage
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, file.Id, payload.FileId)
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no embed job was published")
	}

	files, err := svc.ListTrainingFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "pending", files[0].Status)
}

func TestDeleteConversationRemovesHistory(t *testing.T) {
	svc, _ := newAssistantFixture(t, &fixedProvider{err: errors.New("offline")})
	ctx := context.Background()
	userId := uuid.New()

	resp, err := svc.Ask(ctx, userId, &dto.AskRequest{Question: "xóa tôi đi"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConversation(ctx, userId, resp.ConversationId))

	_, _, err = svc.GetConversation(ctx, userId, resp.ConversationId)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	conversations, err := svc.ListConversations(ctx, userId)
	require.NoError(t, err)
	assert.Empty(t, conversations)
}
