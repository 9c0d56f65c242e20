// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant implements the PandaNexus request pipeline.
//
// A request moves through a fixed sequence:
//
//	classify intent
//	  imageGeneration -> build image URL -> done
//	  otherwise       -> select model -> normalize -> call API
//	                       success -> done
//	                       failure -> category fallback -> done
//
// SendMessage and SpellCheck never return errors. Failures are logged and
// absorbed into the fallback reply.
//
// # Key Types
//
//   - Service: Immutable pipeline built from Options
//   - Completer: The completion API (satisfied by *cloud.Client)
//
// # Usage
//
//	svc := assistant.New(client, imagegen.New(imagegen.Options{}), assistant.DefaultOptions(), logger)
//	reply := svc.SendMessage(ctx, history, model.CategoryCode)
package assistant
