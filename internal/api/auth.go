package api

import "context"

// Login authenticates with email and password. Auth endpoints use the
// friendlier message rewrites from AuthErrorMessage.
func (c *Client) Login(ctx context.Context, email, password string) (LoginReply, error) {
	reply, err := c.Post(ctx, "/auth/login", LoginRequest{Email: email, Password: password})
	if err != nil {
		return LoginReply{}, &Error{Kind: KindConnectivity, Message: connectivityMessage}
	}

	if !reply.OK() {
		apiErr := Classify(reply, nil)
		apiErr.Message = AuthErrorMessage(reply.Body)

		return LoginReply{}, apiErr
	}

	var login LoginReply

	reply.Decode(&login)

	return login, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	reply, err := c.Post(ctx, "/auth/register", req)
	if err != nil {
		return &Error{Kind: KindConnectivity, Message: connectivityMessage}
	}

	if !reply.OK() {
		apiErr := Classify(reply, nil)
		apiErr.Message = AuthErrorMessage(reply.Body)

		return apiErr
	}

	return nil
}
