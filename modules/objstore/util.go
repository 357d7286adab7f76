// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package objstore

import "bytes"

func bytesReader(b []byte) *bytes.Reader { return bytes.NewReader(b) }
