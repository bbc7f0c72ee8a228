package dto

import "github.com/hongminglow/messagely-be/internal/models"

type CreateMessageRequest struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}

type MessageResponse struct {
	Message models.Message `json:"message"`
}

type MessageDetailResponse struct {
	Message models.MessageDetail `json:"message"`
}

type ReadReceiptResponse struct {
	Message models.ReadReceipt `json:"message"`
}

type UsersResponse struct {
	Users []models.UserSummary `json:"users"`
}

type UserResponse struct {
	User models.User `json:"user"`
}

type SentMessagesResponse struct {
	Messages []models.SentMessage `json:"messages"`
}

type ReceivedMessagesResponse struct {
	Messages []models.ReceivedMessage `json:"messages"`
}
