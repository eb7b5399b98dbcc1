package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/ballot --output domain/ballot --outpkg ballotmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/user --output domain/user --outpkg usermock --filename repository_mock.go
